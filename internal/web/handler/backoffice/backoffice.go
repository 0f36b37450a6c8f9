// Package backoffice serves the backoffice pages of signed-in users.
package backoffice

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/auth"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/models"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/handler/login"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/web/navigation"
)

const (
	// Path is the backoffice landing page.
	Path = handler.RootPath + "backoffice"

	// UsersPath lists the backoffice users.
	UsersPath = Path + "/users"

	// TemplateIndex is the template of the landing page.
	TemplateIndex = "backoffice/index"

	// TemplateUsers is the template of the users page.
	TemplateUsers = "backoffice/users"

	// DefaultPageSize is the default number of users per page.
	DefaultPageSize = 25

	maxPageSize = 100
)

// Menu is the backoffice menu.
var Menu = []navigation.MenuItem{ //nolint:gochecknoglobals
	{Title: "Home", URL: Path, Section: "home"},
	{Title: "Users", URL: UsersPath, Section: "users", Roles: []string{models.RoleAdmin}},
}

// UserRow is a user as shown on the users page.
type UserRow struct {
	ID          uint64
	Username    string
	Email       string
	DisplayName string
	Approved    bool
	Roles       []string
}

// Page is a page of users.
type Page struct {
	Users       []UserRow
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    int
	NextPage    int
}

// Service is the backoffice handler service.
type Service struct {
	cfg         *config.Config
	authService *auth.Service
}

// Handler is the backoffice handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the backoffice handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, authService *auth.Service) {
	if app == nil || cfg == nil || authService == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.authService = authService

	app.Get(Path, s.Index)
	app.Get(UsersPath, auth.RequireRole(authService, models.RoleAdmin), s.Users)
}

// Index renders the landing page with the roles the user currently holds.
func (s *Service) Index(c *fiber.Ctx) error {
	current, ok := handler.CurrentSession(c)
	if !ok {
		return c.Redirect(login.Path)
	}

	roles, err := s.authService.GetUserRoles(c.UserContext(), current.User.ID)
	if err != nil {
		return err
	}

	nav := navigation.NewContext("Backoffice", "home").
		AddBreadcrumb("Backoffice", Path, true).
		WithMenu(roles, Menu...)

	return c.Render(TemplateIndex, fiber.Map{
		"Title":         s.cfg.Title,
		"Navigation":    nav,
		"User":          current.User,
		"LoginProvider": current.LoginProvider,
		"Roles":         roles,
	}, handler.BaseLayout)
}

// Users renders a page of the backoffice users.
func (s *Service) Users(c *fiber.Ctx) error {
	users, err := s.authService.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	var roles []string
	if current, ok := handler.CurrentSession(c); ok {
		if roles, err = s.authService.GetUserRoles(c.UserContext(), current.User.ID); err != nil {
			return err
		}
	}

	nav := navigation.NewContext("Users", "users").
		AddBreadcrumb("Backoffice", Path, false).
		AddBreadcrumb("Users", UsersPath, true).
		WithMenu(roles, Menu...)

	page := paginate(users, c.QueryInt("page", 1), c.QueryInt("pageSize", DefaultPageSize))

	log.Debug().Int("total_users", page.TotalItems).Int("page", page.CurrentPage).Msg("backoffice users listed")

	return c.Render(TemplateUsers, fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"Data":       page,
	}, handler.BaseLayout)
}

func paginate(users []models.User, page, pageSize int) Page {
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = DefaultPageSize
	}

	totalItems := len(users)

	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page = min(max(page, 1), totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, totalItems)

	rows := make([]UserRow, 0, end-start)
	for i := start; i < end; i++ {
		u := &users[i]
		rows = append(rows, UserRow{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Approved:    u.IsApproved,
			Roles:       u.RoleAliases(),
		})
	}

	return Page{
		Users:       rows,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
		PrevPage:    page - 1,
		NextPage:    page + 1,
	}
}
