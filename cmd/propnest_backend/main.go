package main

import "github.com/SscSPs/propnest_backend/internal/cli"

// @title PropNest Backend API
// @version 1.0
// @description Points ledger and reward redemption for the PropNest rental marketplace.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cli.Execute()
}
