package main

//go:generate swag init -g cmd/league/main.go -o docs

// @title           Poker League Ledger API
// @version         0.1.0
// @description     Seasons, games, eliminations, settlement, jackpot and membership ledger.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
