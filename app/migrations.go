package app

import (
	gamblingmigrations "github.com/Black-And-White-Club/malta-bot/app/modules/gambling/infrastructure/repositories/migrations"
	lotterymigrations "github.com/Black-And-White-Club/malta-bot/app/modules/lottery/infrastructure/repositories/migrations"
	mailmigrations "github.com/Black-And-White-Club/malta-bot/app/modules/mail/infrastructure/repositories/migrations"
	progressionmigrations "github.com/Black-And-White-Club/malta-bot/app/modules/progression/infrastructure/repositories/migrations"
	shopmigrations "github.com/Black-And-White-Club/malta-bot/app/modules/shop/infrastructure/repositories/migrations"
	weathermigrations "github.com/Black-And-White-Club/malta-bot/app/modules/weather/infrastructure/repositories/migrations"
	"github.com/uptrace/bun/migrate"
)

// Migrations returns every module's migration set keyed by module name.
func Migrations() map[string]*migrate.Migrations {
	return map[string]*migrate.Migrations{
		"progression": progressionmigrations.Migrations,
		"gambling":    gamblingmigrations.Migrations,
		"lottery":     lotterymigrations.Migrations,
		"shop":        shopmigrations.Migrations,
		"weather":     weathermigrations.Migrations,
		"mail":        mailmigrations.Migrations,
	}
}
