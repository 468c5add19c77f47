// @title           SkillUp API
// @version         1.0
// @description     Оплата курсов и запись студентов (документация Swagger).
// @contact.name    SkillUp
// @contact.email   support@skillup.dev
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "skillup_backend/internal/app"

func main() {
	app.Run()
}
