package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #1F2937;">
  <h2 style="color: #1E40AF;">Bienvenue chez Africa Invest Capital</h2>
  <p>Bonjour {{.FirstName}},</p>
  <p>Votre compte client a bien été créé. Vous pouvez dès maintenant
  soumettre une demande de financement depuis votre espace client.</p>
  <p>L'équipe Africa Invest Capital</p>
</body>
</html>
`))

var statusChangedTmpl = template.Must(template.New("status_changed").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #1F2937;">
  <h2 style="color: #1E40AF;">Mise à jour de votre demande</h2>
  <p>Bonjour {{.FirstName}},</p>
  <p>Le statut de votre demande de prêt <strong>{{.LoanID}}</strong> est passé
  de <strong>{{.OldStatus}}</strong> à <strong>{{.NewStatus}}</strong>.</p>
  <p>Connectez-vous à votre espace client pour plus de détails.</p>
  <p>L'équipe Africa Invest Capital</p>
</body>
</html>
`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #1F2937;">
  <h2 style="color: #1E40AF;">Réinitialisation de votre mot de passe</h2>
  <p>Bonjour {{.FirstName}},</p>
  <p>Une réinitialisation de mot de passe a été demandée pour votre compte.
  Utilisez le code ci-dessous dans l'heure qui suit :</p>
  <p style="font-size: 18px;"><strong>{{.Token}}</strong></p>
  <p>Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.</p>
  <p>L'équipe Africa Invest Capital</p>
</body>
</html>
`))

func renderWelcome(firstName string) (string, error) {
	var buf bytes.Buffer
	err := welcomeTmpl.Execute(&buf, map[string]string{"FirstName": firstName})
	if err != nil {
		return "", fmt.Errorf("failed to render welcome template: %w", err)
	}
	return buf.String(), nil
}

func renderStatusChanged(firstName, loanID, oldStatus, newStatus string) (string, error) {
	var buf bytes.Buffer
	err := statusChangedTmpl.Execute(&buf, map[string]string{
		"FirstName": firstName,
		"LoanID":    loanID,
		"OldStatus": statusLabel(oldStatus),
		"NewStatus": statusLabel(newStatus),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render status template: %w", err)
	}
	return buf.String(), nil
}

func renderPasswordReset(firstName, token string) (string, error) {
	var buf bytes.Buffer
	err := passwordResetTmpl.Execute(&buf, map[string]string{
		"FirstName": firstName,
		"Token":     token,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render password reset template: %w", err)
	}
	return buf.String(), nil
}

// statusLabel maps canonical statuses to the French labels clients see.
func statusLabel(status string) string {
	switch status {
	case "pending":
		return "En attente"
	case "in_progress":
		return "En cours"
	case "approved":
		return "Approuvé"
	case "rejected":
		return "Rejeté"
	case "completed":
		return "Clôturé"
	default:
		return status
	}
}
