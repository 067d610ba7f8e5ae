package mailer

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

var invitationTemplate = template.Must(template.New("invitation").Parse(`# Welcome to CampusConnect, {{.Name}}

An account has been created for you with the **{{.Role}}** role.

- E-mail: {{.Email}}
- Temporary password: ` + "`{{.TemporaryPassword}}`" + `

Sign in at [{{.AppURL}}]({{.AppURL}}) and change your password right away.
`))

type Invitation struct {
	Name              string
	Email             string
	Role              string
	TemporaryPassword string
	AppURL            string
}

// Message renders the invitation markdown to HTML. Raw HTML in the input is escaped.
func (i Invitation) Message() (Message, error) {
	var md bytes.Buffer
	if err := invitationTemplate.Execute(&md, i); err != nil {
		return Message{}, fmt.Errorf("invitationTemplate.Execute -> %w", err)
	}

	var body bytes.Buffer
	if err := markdown.Convert(md.Bytes(), &body); err != nil {
		return Message{}, fmt.Errorf("markdown.Convert -> %w", err)
	}

	return Message{
		To:      []string{i.Email},
		Subject: "Your CampusConnect account",
		HTML:    body.String(),
	}, nil
}
