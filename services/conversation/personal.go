package conversation

import (
	"context"

	"lexcitas/models"
	"lexcitas/services/nlp"
	"lexcitas/utils"

	"go.uber.org/zap"
)

// absorbPersonalData runs on every turn regardless of state. Extracted
// fields fill empty session slots only; a recognized client record then
// backfills whatever is still missing.
func (s *DefaultConversationService) absorbPersonalData(ctx context.Context, sess *models.Session, text string) {
	data := nlp.ExtractPersonalData(text)

	// A "name" that coincides with a meeting-type token is a misparse
	// ("soy presencial" is a preference, not an introduction).
	if data.Name != "" && models.MeetingType(nlp.Normalize(data.Name)).Valid() {
		data.Name = ""
	}

	if sess.Personal.Name == "" && data.Name != "" {
		sess.Personal.Name = data.Name
	}
	if sess.Personal.Email == "" && data.Email != "" {
		sess.Personal.Email = data.Email
	}
	if sess.Personal.Phone == "" && data.Phone != "" {
		sess.Personal.Phone = data.Phone
	}

	if sess.Personal.Complete() {
		return
	}

	// Client recognition: by email first, then by phone.
	client := s.lookupClient(sess.Personal)
	if client == nil {
		return
	}
	if sess.Personal.Name == "" {
		sess.Personal.Name = client.Name
	}
	if sess.Personal.Email == "" {
		sess.Personal.Email = client.Email
	}
	if sess.Personal.Phone == "" {
		sess.Personal.Phone = client.Phone
	}
}

func (s *DefaultConversationService) lookupClient(personal models.PersonalData) *models.Client {
	logger := utils.GetLogger()

	if personal.Email != "" {
		client, err := s.Clients.GetByEmail(personal.Email)
		if err != nil {
			logger.Warn("client lookup by email failed", zap.Error(err))
		} else if client != nil {
			return client
		}
	}
	if personal.Phone != "" {
		client, err := s.Clients.GetByPhone(personal.Phone)
		if err != nil {
			logger.Warn("client lookup by phone failed", zap.Error(err))
		} else if client != nil {
			return client
		}
	}
	return nil
}
