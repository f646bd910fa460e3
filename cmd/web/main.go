// @title           Africa Invest Capital API
// @version         1.0
// @description     Loan origination backend: client portal, admin review flow, document storage.
// @contact.name    Africa Invest Capital
// @contact.email   contact@africainvestcapital.com
// @host            localhost:4000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "aic_backend/internal/app"

func main() {
	app.Run()
}
