package view

import (
	"context"

	"github.com/siahsang/devconnector/internal/client"
)

// DashboardPath is where forms send an authenticated user.
const DashboardPath = "/dashboard"

type RegisterForm struct {
	Name      string
	Email     string
	Password  string
	Password2 string
}

// Submit registers the user. It returns DashboardPath when the user is
// authenticated afterwards, or already was, and "" when the form stays.
func (f RegisterForm) Submit(ctx context.Context, d *client.Dispatcher) (string, error) {
	if d.Store().Auth().IsAuthenticated {
		return DashboardPath, nil
	}

	if f.Password != f.Password2 {
		d.SetAlert("Passwords do not match", client.AlertDanger, 0)
		return "", nil
	}

	err := d.Register(ctx, client.RegisterForm{Name: f.Name, Email: f.Email, Password: f.Password})
	return redirectIfAuthenticated(d), err
}

type LoginForm struct {
	Email    string
	Password string
}

func (f LoginForm) Submit(ctx context.Context, d *client.Dispatcher) (string, error) {
	if d.Store().Auth().IsAuthenticated {
		return DashboardPath, nil
	}

	err := d.Login(ctx, f.Email, f.Password)
	return redirectIfAuthenticated(d), err
}

func redirectIfAuthenticated(d *client.Dispatcher) string {
	if d.Store().Auth().IsAuthenticated {
		return DashboardPath
	}
	return ""
}
