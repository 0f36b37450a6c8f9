package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Users", "users")

	assert.Equal(t, "Users", ctx.PageTitle)
	assert.Equal(t, "users", ctx.ActiveSection)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Menu)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Users", "users").
		AddBreadcrumb("Backoffice", "/backoffice", false).
		AddBreadcrumb("Users", "/backoffice/users", true)

	assert.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "Backoffice", ctx.Breadcrumbs[0].Title)
	assert.False(t, ctx.Breadcrumbs[0].Active)
	assert.Equal(t, "/backoffice/users", ctx.Breadcrumbs[1].URL)
	assert.True(t, ctx.Breadcrumbs[1].Active)
}

func TestContext_WithMenu(t *testing.T) {
	items := []MenuItem{
		{Title: "Home", URL: "/backoffice", Section: "home"},
		{Title: "Users", URL: "/backoffice/users", Section: "users", Roles: []string{"admin"}},
		{Title: "Content", URL: "/backoffice/content", Section: "content", Roles: []string{"editor", "writer"}},
	}

	tests := []struct {
		name  string
		roles []string
		want  []string
	}{
		{name: "no roles", roles: nil, want: []string{"Home"}},
		{name: "admin", roles: []string{"admin"}, want: []string{"Home", "Users"}},
		{name: "writer", roles: []string{"writer"}, want: []string{"Home", "Content"}},
		{name: "role case matters", roles: []string{"Admin"}, want: []string{"Home"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext("Home", "home").WithMenu(tt.roles, items...)

			titles := make([]string, 0, len(ctx.Menu))
			for _, m := range ctx.Menu {
				titles = append(titles, m.Title)
			}

			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestContext_IsSectionActive(t *testing.T) {
	ctx := NewContext("Users", "users")

	assert.True(t, ctx.IsSectionActive("users"))
	assert.False(t, ctx.IsSectionActive("home"))
}
