package conversation

import (
	"context"
	"fmt"
	"strings"

	"lexcitas/models"
	"lexcitas/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *DefaultConversationService) handleStatusOption(ctx context.Context, sess *models.Session, text string, intent models.Intent) models.Reply {
	choice, ok := matchOption(text, statusOptionMenu().Menu)
	if !ok {
		// A case number typed directly is accepted here too.
		if looksLikeCaseNumber(text) {
			return s.handleCaseNumber(ctx, sess, text)
		}
		return statusOptionMenu()
	}

	switch choice {
	case optByCaseNumber:
		sess.State = models.StateAwaitingCaseNumber
		return models.TextReply("¿Me indica el número de expediente? Lo encontrará en la documentación que le entregamos.")
	case optByEmail:
		if sess.Personal.Email == "" {
			sess.State = models.StateAwaitingClientEmail
			return models.TextReply("¿Me indica el correo electrónico asociado a su expediente?")
		}
		return s.lookupCaseByEmail(ctx, sess)
	}
	return statusOptionMenu()
}

func looksLikeCaseNumber(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	digits := 0
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 4
}

func (s *DefaultConversationService) handleCaseNumber(ctx context.Context, sess *models.Session, text string) models.Reply {
	caseNumber := strings.TrimSpace(text)
	if caseNumber == "" {
		return models.TextReply("¿Me indica el número de expediente, por favor?")
	}

	legalCase, err := s.Cases.GetByCaseNumber(caseNumber)
	if err != nil {
		utils.GetLogger().Error("case lookup failed", zap.String("caseNumber", caseNumber), zap.Error(err))
		return models.TextReply(msgAgendaUnavailable)
	}
	if legalCase == nil {
		sess.State = models.StateAwaitingCaseNumber
		return models.TextReply(fmt.Sprintf("No encuentro ningún expediente con el número %s. ¿Podría comprobarlo?", caseNumber))
	}

	sess.CaseLookup = models.CaseLookup{CaseNumber: legalCase.CaseNumber, Found: true}
	sess.State = models.StateAwaitingVerificationCode
	return models.TextReply("Por seguridad, indíqueme el código de verificación que le facilitó el despacho.")
}

func (s *DefaultConversationService) handleClientEmail(ctx context.Context, sess *models.Session) models.Reply {
	// The email, if present in the turn, was already absorbed.
	if sess.Personal.Email == "" {
		return models.TextReply("No he reconocido un correo electrónico. ¿Me lo indica de nuevo, por favor?")
	}
	return s.lookupCaseByEmail(ctx, sess)
}

func (s *DefaultConversationService) lookupCaseByEmail(ctx context.Context, sess *models.Session) models.Reply {
	legalCase, err := s.Cases.GetLatestByEmail(sess.Personal.Email)
	if err != nil {
		utils.GetLogger().Error("case lookup by email failed",
			zap.String("email", sess.Personal.Email), zap.Error(err))
		return models.TextReply(msgAgendaUnavailable)
	}
	if legalCase == nil {
		s.finishFlow(sess)
		return models.Reply{
			Text: fmt.Sprintf("No encuentro expedientes asociados a %s. %s", sess.Personal.Email, msgAnythingElse),
			Menu: welcomeMenu().Menu,
		}
	}

	sess.CaseLookup = models.CaseLookup{CaseNumber: legalCase.CaseNumber, Email: sess.Personal.Email, Found: true}
	sess.State = models.StateAwaitingVerificationCode
	return models.TextReply("Por seguridad, indíqueme el código de verificación que le facilitó el despacho.")
}

func (s *DefaultConversationService) handleVerificationCode(ctx context.Context, sess *models.Session, text string) models.Reply {
	code := strings.TrimSpace(text)
	if code == "" || !sess.CaseLookup.Found {
		s.finishFlow(sess)
		return welcomeMenu()
	}

	legalCase, err := s.Cases.GetByCaseNumber(sess.CaseLookup.CaseNumber)
	if err != nil || legalCase == nil {
		utils.GetLogger().Error("case re-fetch failed",
			zap.String("caseNumber", sess.CaseLookup.CaseNumber), zap.Error(err))
		s.finishFlow(sess)
		return models.TextReply(msgApology)
	}

	if bcrypt.CompareHashAndPassword([]byte(legalCase.VerificationCodeHash), []byte(code)) != nil {
		return models.TextReply("Ese código no es válido. ¿Podría comprobarlo e indicármelo de nuevo?")
	}

	s.finishFlow(sess)
	return models.Reply{
		Text: fmt.Sprintf(
			"Expediente %s · %s\nEstado: %s\nÚltima actualización: %s\n\n%s",
			legalCase.CaseNumber, legalCase.Title, legalCase.Status,
			legalCase.LastUpdate.In(s.Location).Format("02/01/2006"), msgAnythingElse),
		Menu: welcomeMenu().Menu,
	}
}
