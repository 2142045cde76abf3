package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/edusenior/eduterm/internal/models"
)

func handleRegister(a *app, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: register <teacher|student> <email> <password> <full name...>")
	}
	req := models.RegisterRequest{
		Role:     args[0],
		Email:    args[1],
		Password: args[2],
		FullName: strings.Join(args[3:], " "),
	}
	profile, err := a.client.Register(context.Background(), req)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (%s) as %s\n", profile.FullName, profile.Email, profile.Role)
	return nil
}

func handleLogin(a *app, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}
	if _, err := a.client.Login(context.Background(), args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func handleLogout(a *app, args []string) error {
	if err := a.session.Clear(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func handleWhoami(a *app, args []string) error {
	profile, err := a.client.Me(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>  role=%s  id=%d\n", profile.FullName, profile.Email, profile.Role, profile.ID)
	return nil
}

// sessionRole reads the role claim from the stored token so the catalog can
// pick its tab set without a network round trip.
func sessionRole(a *app) (models.Role, error) {
	role, ok := a.session.Role()
	if !ok {
		return "", fmt.Errorf("not logged in; run 'eduterm login' first")
	}
	return role, nil
}
