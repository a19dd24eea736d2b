// Package view renders client state as text and turns form input into
// dispatcher calls.
package view

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/siahsang/devconnector/internal/client"
	"github.com/siahsang/devconnector/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dateLayout = "2006/01/02"

// printer keeps the first write error so renderers can write without
// checking every call.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) table(header string, rows [][]string) {
	if p.err != nil {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	p.err = tw.Flush()
}

func RenderAlerts(w io.Writer, alerts []client.Alert) error {
	p := &printer{w: w}
	for _, a := range alerts {
		p.printf("[%s] %s\n", a.Type, a.Msg)
	}
	return p.err
}

// RenderDashboard shows the signed in user's profile entries.
func RenderDashboard(w io.Writer, auth client.AuthState, state client.ProfileState) error {
	p := &printer{w: w}
	if state.Loading && state.Profile == nil {
		p.printf("Loading...\n")
		return p.err
	}

	p.printf("Dashboard\n")
	if auth.User != nil {
		p.printf("Welcome %s\n", auth.User.Name)
	}

	if state.Profile == nil {
		p.printf("You have not yet setup a profile, please add some info\n")
		return p.err
	}

	p.printf("\nExperience Credentials\n")
	experienceTable(p, state.Profile.Experience, true)
	p.printf("\nEducation Credentials\n")
	educationTable(p, state.Profile.Education, true)
	return p.err
}

func RenderProfiles(w io.Writer, state client.ProfileState) error {
	p := &printer{w: w}
	if state.Loading {
		p.printf("Loading...\n")
		return p.err
	}

	p.printf("Developers\n")
	if len(state.Profiles) == 0 {
		p.printf("No profiles found...\n")
		return p.err
	}

	rows := make([][]string, 0, len(state.Profiles))
	for _, profile := range state.Profiles {
		rows = append(rows, []string{
			profile.User.ID.Hex(),
			profile.User.Name,
			headline(profile),
			profile.Location,
			strings.Join(profile.Skills, ", "),
		})
	}
	p.table("ID\tNAME\tSTATUS\tLOCATION\tSKILLS", rows)
	return p.err
}

// RenderProfile shows one developer, with their GitHub repos when loaded.
func RenderProfile(w io.Writer, state client.ProfileState) error {
	p := &printer{w: w}
	profile := state.Profile
	if profile == nil {
		if state.Loading {
			p.printf("Loading...\n")
		} else {
			p.printf("Profile not found\n")
		}
		return p.err
	}

	p.printf("%s\n%s\n", profile.User.Name, headline(profile))
	if profile.Location != "" {
		p.printf("%s\n", profile.Location)
	}
	if profile.Website != "" {
		p.printf("%s\n", profile.Website)
	}
	social(p, profile.Social)

	if profile.Bio != "" {
		p.printf("\n%s's Bio\n%s\n", firstName(profile.User.Name), profile.Bio)
	}
	p.printf("\nSkill Set\n%s\n", strings.Join(profile.Skills, " | "))

	p.printf("\nExperience\n")
	if len(profile.Experience) == 0 {
		p.printf("No experience credentials\n")
	} else {
		experienceTable(p, profile.Experience, false)
	}

	p.printf("\nEducation\n")
	if len(profile.Education) == 0 {
		p.printf("No education credentials\n")
	} else {
		educationTable(p, profile.Education, false)
	}

	if profile.GitHubUsername != "" && len(state.Repos) > 0 {
		p.printf("\nGithub Repos\n")
		rows := make([][]string, 0, len(state.Repos))
		for _, repo := range state.Repos {
			rows = append(rows, []string{
				repo.Name,
				fmt.Sprint(repo.StargazersCount),
				fmt.Sprint(repo.WatchersCount),
				fmt.Sprint(repo.ForksCount),
				repo.HTMLURL,
			})
		}
		p.table("NAME\tSTARS\tWATCHERS\tFORKS\tURL", rows)
	}
	return p.err
}

// RenderPosts lists posts newest first as they come from the store. Posts
// owned by the signed in user are marked deletable.
func RenderPosts(w io.Writer, auth client.AuthState, state client.PostState) error {
	p := &printer{w: w}
	if state.Loading {
		p.printf("Loading...\n")
		return p.err
	}

	p.printf("Posts\nWelcome to the community\n\n")
	rows := make([][]string, 0, len(state.Posts))
	for _, post := range state.Posts {
		rows = append(rows, []string{
			post.ID.Hex(),
			post.Name,
			post.Date.Format(dateLayout),
			fmt.Sprint(len(post.Likes)),
			fmt.Sprint(len(post.Comments)),
			ownerMark(auth, post.User),
			post.Text,
		})
	}
	p.table("ID\tNAME\tPOSTED\tLIKES\tCOMMENTS\t\tTEXT", rows)
	return p.err
}

func RenderPost(w io.Writer, auth client.AuthState, state client.PostState) error {
	p := &printer{w: w}
	post := state.Post
	if post == nil {
		if state.Loading {
			p.printf("Loading...\n")
		} else {
			p.printf("Post not found\n")
		}
		return p.err
	}

	p.printf("%s (%s)\n%s\n", post.Name, post.Date.Format(dateLayout), post.Text)
	p.printf("%d likes\n\nComments\n", len(post.Likes))
	if len(post.Comments) == 0 {
		p.printf("No comments\n")
		return p.err
	}

	rows := make([][]string, 0, len(post.Comments))
	for _, c := range post.Comments {
		rows = append(rows, []string{c.ID.Hex(), c.Name, c.Date.Format(dateLayout), ownerMark(auth, c.User), c.Text})
	}
	p.table("ID\tNAME\tPOSTED\t\tTEXT", rows)
	return p.err
}

func experienceTable(p *printer, entries []models.Experience, withID bool) {
	rows := make([][]string, 0, len(entries))
	for _, exp := range entries {
		row := []string{exp.Company, exp.Title, period(exp.From, exp.To)}
		if withID {
			row = append([]string{exp.ID.Hex()}, row...)
		}
		rows = append(rows, row)
	}
	header := "COMPANY\tTITLE\tYEARS"
	if withID {
		header = "ID\t" + header
	}
	p.table(header, rows)
}

func educationTable(p *printer, entries []models.Education, withID bool) {
	rows := make([][]string, 0, len(entries))
	for _, edu := range entries {
		row := []string{edu.School, edu.Degree, edu.FieldOfStudy, period(edu.From, edu.To)}
		if withID {
			row = append([]string{edu.ID.Hex()}, row...)
		}
		rows = append(rows, row)
	}
	header := "SCHOOL\tDEGREE\tFIELD\tYEARS"
	if withID {
		header = "ID\t" + header
	}
	p.table(header, rows)
}

func social(p *printer, s models.Social) {
	links := []struct{ name, url string }{
		{"twitter", s.Twitter},
		{"facebook", s.Facebook},
		{"linkedin", s.LinkedIn},
		{"youtube", s.YouTube},
		{"instagram", s.Instagram},
	}
	for _, l := range links {
		if l.url != "" {
			p.printf("%s: %s\n", l.name, l.url)
		}
	}
}

func headline(profile *models.ProfileView) string {
	if profile.Company == "" {
		return profile.Status
	}
	return profile.Status + " at " + profile.Company
}

func period(from time.Time, to *time.Time) string {
	if to == nil {
		return from.Format(dateLayout) + " - Now"
	}
	return from.Format(dateLayout) + " - " + to.Format(dateLayout)
}

func firstName(name string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first
}

func ownerMark(auth client.AuthState, owner primitive.ObjectID) string {
	if auth.User != nil && auth.User.ID == owner {
		return "*"
	}
	return ""
}
