package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/devconnector/internal/client"
	"github.com/siahsang/devconnector/internal/client/view"
	"github.com/spf13/cobra"
)

func newRegisterCommand(s *session) *cobra.Command {
	var form view.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			redirect, err := form.Submit(cmd.Context(), s.dispatcher)
			if err != nil || redirect == "" {
				return err
			}
			return s.showDashboard(cmd)
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "display name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "password, six characters or more")
	cmd.Flags().StringVar(&form.Password2, "password2", "", "password confirmation")
	return cmd
}

func newLoginCommand(s *session) *cobra.Command {
	var form view.LoginForm

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			redirect, err := form.Submit(cmd.Context(), s.dispatcher)
			if err != nil || redirect == "" {
				return err
			}
			return s.showDashboard(cmd)
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.Password, "password", "", "password")
	return cmd
}

func newLogoutCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			s.dispatcher.Logout()
		},
	}
}

func newDashboardCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"me"},
		Short:   "Show your account and credentials",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.requireToken(); err != nil {
				return err
			}
			if err := s.dispatcher.LoadUser(cmd.Context()); err != nil {
				return err
			}
			return s.showDashboard(cmd)
		},
	}
}

// showDashboard loads the user when needed and then the current profile. A
// missing profile is rendered, not reported.
func (s *session) showDashboard(cmd *cobra.Command) error {
	if s.store.Auth().User == nil {
		if err := s.dispatcher.LoadUser(cmd.Context()); err != nil {
			return err
		}
	}
	if err := s.dispatcher.GetCurrentProfile(cmd.Context()); err != nil && !isMissingProfile(err) {
		return err
	}
	return view.RenderDashboard(s.out, s.store.Auth(), s.store.Profile())
}

// isMissingProfile reports the plain 400 the server answers with when the
// signed-in user has no profile yet.
func isMissingProfile(err error) bool {
	var apiErr *client.APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest && len(apiErr.Errors) == 0
}

func newProfileCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Browse and edit developer profiles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all developers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.dispatcher.GetProfiles(cmd.Context()); err != nil {
				return err
			}
			return view.RenderProfiles(s.out, s.store.Profile())
		},
	}

	show := &cobra.Command{
		Use:   "show USER_ID",
		Short: "Show a developer with their GitHub repos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.dispatcher.GetProfileByID(cmd.Context(), args[0]); err != nil {
				return err
			}
			if profile := s.store.Profile().Profile; profile != nil && profile.GitHubUsername != "" {
				if err := s.dispatcher.GetGitHubRepos(cmd.Context(), profile.GitHubUsername); err != nil {
					s.logger.Warn("github repos unavailable", "username", profile.GitHubUsername, "error", err)
				}
			}
			return view.RenderProfile(s.out, s.store.Profile())
		},
	}

	var (
		form client.ProfileForm
		edit bool
	)
	save := &cobra.Command{
		Use:   "save",
		Short: "Create or update your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.requireToken(); err != nil {
				return err
			}
			if err := s.dispatcher.SaveProfile(cmd.Context(), form, edit); err != nil {
				return err
			}
			return s.showDashboard(cmd)
		},
	}
	flags := save.Flags()
	flags.BoolVar(&edit, "edit", false, "the profile already exists")
	flags.StringVar(&form.Status, "status", "", "professional status, required")
	flags.StringVar(&form.Skills, "skills", "", "comma separated skills, required")
	flags.StringVar(&form.Company, "company", "", "")
	flags.StringVar(&form.Website, "website", "", "")
	flags.StringVar(&form.Location, "location", "", "")
	flags.StringVar(&form.Bio, "bio", "", "")
	flags.StringVar(&form.GitHubUsername, "githubusername", "", "")
	flags.StringVar(&form.YouTube, "youtube", "", "")
	flags.StringVar(&form.Twitter, "twitter", "", "")
	flags.StringVar(&form.Facebook, "facebook", "", "")
	flags.StringVar(&form.LinkedIn, "linkedin", "", "")
	flags.StringVar(&form.Instagram, "instagram", "", "")

	cmd.AddCommand(list, show, save)
	return cmd
}

func newExperienceCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experience",
		Short: "Manage experience credentials",
	}

	var form client.ExperienceForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an experience entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.requireToken(); err != nil {
				return err
			}
			if err := s.dispatcher.AddExperience(cmd.Context(), form); err != nil {
				return err
			}
			return s.showDashboard(cmd)
		},
	}
	add.Flags().StringVar(&form.Title, "title", "", "job title, required")
	add.Flags().StringVar(&form.Company, "company", "", "company, required")
	add.Flags().StringVar(&form.Location, "location", "", "")
	add.Flags().StringVar(&form.From, "from", "", "start date (YYYY-MM-DD), required")
	add.Flags().StringVar(&form.To, "to", "", "end date (YYYY-MM-DD)")
	add.Flags().BoolVar(&form.Current, "current", false, "current job")
	add.Flags().StringVar(&form.Description, "description", "", "")

	cmd.AddCommand(add, s.deleteEntryCommand("experience", (*client.Dispatcher).DeleteExperience))
	return cmd
}

func newEducationCommand(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "education",
		Short: "Manage education credentials",
	}

	var form client.EducationForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an education entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.requireToken(); err != nil {
				return err
			}
			if err := s.dispatcher.AddEducation(cmd.Context(), form); err != nil {
				return err
			}
			return s.showDashboard(cmd)
		},
	}
	add.Flags().StringVar(&form.School, "school", "", "school, required")
	add.Flags().StringVar(&form.Degree, "degree", "", "degree, required")
	add.Flags().StringVar(&form.FieldOfStudy, "fieldofstudy", "", "field of study, required")
	add.Flags().StringVar(&form.From, "from", "", "start date (YYYY-MM-DD), required")
	add.Flags().StringVar(&form.To, "to", "", "end date (YYYY-MM-DD)")
	add.Flags().BoolVar(&form.Current, "current", false, "still studying")
	add.Flags().StringVar(&form.Description, "description", "", "")

	cmd.AddCommand(add, s.deleteEntryCommand("education", (*client.Dispatcher).DeleteEducation))
	return cmd
}

type removeFunc func(d *client.Dispatcher, ctx context.Context, id string) error

// deleteEntryCommand builds "delete ID" for a kind of credential.
func (s *session) deleteEntryCommand(kind string, remove removeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an " + kind + " entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.requireToken(); err != nil {
				return err
			}
			if err := remove(s.dispatcher, cmd.Context(), args[0]); err != nil {
				return err
			}
			return s.showDashboard(cmd)
		},
	}
}

var errNotConfirmed = xerrors.Message("this can NOT be undone, pass --yes to confirm")

func newDeleteAccountCommand(s *session) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Delete your account, profile and posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.requireToken(); err != nil {
				return err
			}
			if !confirmed {
				return errNotConfirmed
			}
			return s.dispatcher.DeleteAccount(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")
	return cmd
}
