package dsn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/config"
	"github.com/GoPowerDNS-Admin/backoffice-oidc/internal/db/dsn"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		db   config.DB
		want string
	}{
		{
			name: "mysql",
			db: config.DB{
				GormEngine: config.EngineMySQL,
				User:       "backoffice",
				Password:   "secret",
				Host:       "db",
				Port:       3306,
				Name:       "backoffice",
				Extras:     "parseTime=True",
			},
			want: "backoffice:secret@tcp(db:3306)/backoffice?parseTime=True",
		},
		{
			name: "empty engine is mysql",
			db:   config.DB{User: "u", Password: "p", Host: "h", Port: 1, Name: "n"},
			want: "u:p@tcp(h:1)/n?",
		},
		{
			name: "postgres escapes the password",
			db: config.DB{
				GormEngine: config.EnginePostgres,
				User:       "backoffice",
				Password:   "p@ss word",
				Host:       "db",
				Port:       5432,
				Name:       "backoffice",
				Extras:     "sslmode=disable",
			},
			want: "postgres://backoffice:p%40ss%20word@db:5432/backoffice?sslmode=disable",
		},
		{
			name: "sqlite file",
			db:   config.DB{GormEngine: config.EngineSQLite, Name: "backoffice.db"},
			want: "backoffice.db",
		},
		{
			name: "sqlite with extras",
			db:   config.DB{GormEngine: config.EngineSQLite, Name: "backoffice.db", Extras: "_pragma=foreign_keys(1)"},
			want: "backoffice.db?_pragma=foreign_keys(1)",
		},
		{
			name: "sqlite in memory",
			db:   config.DB{GormEngine: config.EngineSQLite},
			want: ":memory:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dsn.Create(&tt.db))
		})
	}
}
