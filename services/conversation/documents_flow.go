package conversation

import (
	"context"
	"fmt"

	"lexcitas/models"
	"lexcitas/utils"

	"go.uber.org/zap"
)

// handleDocumentDecision resolves the post-booking document offer. Either
// answer marks the question resolved so a later booking in the same session
// is not asked twice.
func (s *DefaultConversationService) handleDocumentDecision(ctx context.Context, sess *models.Session, text string, intent models.Intent) models.Reply {
	choice, ok := matchOption(text, documentOfferMenu().Menu)
	if !ok {
		switch intent {
		case models.IntentConfirm:
			choice = optDocYes
		case models.IntentDeny:
			choice = optDocNo
		default:
			return documentOfferMenu()
		}
	}

	if choice == optDocNo {
		sess.DocumentsResolved = true
		s.finishFlow(sess)
		return models.Reply{Text: "De acuerdo. " + msgAnythingElse, Menu: welcomeMenu().Menu}
	}

	appointmentID := sess.TempAppointmentID
	token, err := s.Tokens.GenerateUploadToken(ctx, appointmentID)
	if err != nil {
		utils.GetLogger().Error("upload token generation failed",
			zap.String("appointmentId", appointmentID), zap.Error(err))
		sess.DocumentsResolved = true
		s.finishFlow(sess)
		return models.Reply{
			Text: "Ahora mismo no puedo generar el enlace de subida. Le llegará por correo junto a la confirmación. " + msgAnythingElse,
			Menu: welcomeMenu().Menu,
		}
	}

	sess.DocumentsResolved = true
	url := s.Tokens.UploadURL(token)
	s.finishFlow(sess)
	return models.Reply{
		Text: fmt.Sprintf(
			"Puede subir su documentación en este enlace (válido 48 horas y de un solo uso):\n%s\n\n%s", url, msgAnythingElse),
		Menu: welcomeMenu().Menu,
	}
}
