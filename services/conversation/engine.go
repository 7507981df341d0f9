package conversation

import (
	"context"
	"strings"

	"lexcitas/models"
	"lexcitas/services/nlp"
	"lexcitas/utils"

	"go.uber.org/zap"
)

// ProcessTurn handles one inbound message for one user. The per-user lock
// serializes turns; any panic below resets the session (keeping identity
// data) and returns a generic apology instead of propagating upward.
func (s *DefaultConversationService) ProcessTurn(ctx context.Context, userID, text string) (reply models.Reply, err error) {
	unlock := s.Sessions.Lock(userID)
	defer unlock()

	logger := utils.GetLogger()

	sess, loadErr := s.Sessions.Get(ctx, userID)
	if loadErr != nil {
		logger.Error("failed to load session, starting fresh",
			zap.String("userId", userID), zap.Error(loadErr))
		sess = nil
	}
	if sess == nil {
		sess = models.NewSession(userID)
	}
	if !sess.State.Valid() {
		// A state outside the closed set must not reach dispatch.
		logger.Warn("session in unknown state, resetting",
			zap.String("userId", userID), zap.String("state", string(sess.State)))
		sess.HardReset()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic during turn, resetting session",
				zap.String("userId", userID),
				zap.String("state", string(sess.State)),
				zap.Any("panic", r))
			sess.SoftReset()
			reply = models.TextReply(msgApology)
			err = nil
		}
		if saveErr := s.Sessions.Put(ctx, sess); saveErr != nil {
			logger.Error("failed to save session",
				zap.String("userId", userID), zap.Error(saveErr))
		}
	}()

	reply = s.handleTurn(ctx, sess, text)
	return reply, nil
}

func (s *DefaultConversationService) handleTurn(ctx context.Context, sess *models.Session, text string) models.Reply {
	norm := nlp.Normalize(text)

	// Farewell precedes state dispatch, with one carve-out: while awaiting
	// confirmation a bare "no" means "change details", never goodbye.
	confirmingNo := sess.State == models.StateAwaitingConfirmation &&
		(norm == "no" || strings.HasPrefix(norm, "cambiar"))
	if !confirmingNo && nlp.IsFarewell(text) {
		sess.HardReset()
		return models.TextReply(msgGoodbye)
	}

	// Personal data is captured opportunistically on every turn.
	s.absorbPersonalData(ctx, sess, text)

	intent := s.Classifier.Classify(text)

	// The cancellation sub-flow can be entered from almost any state.
	if wantsCancellation(norm) && !inCancelFlow(sess.State) {
		return s.startCancellation(ctx, sess)
	}

	switch sess.State {
	case models.StateInitial:
		return s.handleInitial(ctx, sess, text, intent)
	case models.StateAwaitingStart:
		return s.handleAwaitingStart(ctx, sess, text, intent)
	case models.StateAwaitingMeetingType:
		return s.handleMeetingType(ctx, sess, text, intent)
	case models.StateAwaitingTopic:
		return s.handleTopic(ctx, sess, text)
	case models.StateAwaitingDatePreference:
		return s.handleDatePreference(ctx, sess, text, intent)
	case models.StateAwaitingDate, models.StateShowingCalendar:
		return s.handleDate(ctx, sess, text)
	case models.StateAwaitingTime:
		return s.handleTime(ctx, sess, text)
	case models.StateAwaitingPersonalData:
		return s.handlePersonalData(ctx, sess)
	case models.StateAwaitingConfirmation:
		return s.handleConfirmation(ctx, sess, text, intent)
	case models.StateAwaitingChangeSelection:
		return s.handleChangeSelection(ctx, sess, text)
	case models.StateAwaitingDocumentChoice:
		return s.handleDocumentDecision(ctx, sess, text, intent)

	case models.StateAwaitingCancelData:
		return s.handleCancelData(ctx, sess)
	case models.StateAwaitingCancelSelection:
		return s.handleCancelSelection(ctx, sess, text)
	case models.StateAwaitingCancelConfirmation:
		return s.handleCancelConfirmation(ctx, sess, text, intent)

	case models.StateAwaitingStatusOption:
		return s.handleStatusOption(ctx, sess, text, intent)
	case models.StateAwaitingCaseNumber:
		return s.handleCaseNumber(ctx, sess, text)
	case models.StateAwaitingClientEmail:
		return s.handleClientEmail(ctx, sess)
	case models.StateAwaitingVerificationCode:
		return s.handleVerificationCode(ctx, sess, text)
	}

	// Unreachable: Valid() guarded above. Reset defensively anyway.
	sess.SoftReset()
	return welcomeMenu()
}

// wantsCancellation detects the "cancel my appointment" entry phrase.
func wantsCancellation(norm string) bool {
	if !strings.Contains(norm, "cancelar") && !strings.Contains(norm, "anular") {
		return false
	}
	return strings.Contains(norm, "cita") || strings.Contains(norm, "reserva")
}

func inCancelFlow(state models.ConversationState) bool {
	switch state {
	case models.StateAwaitingCancelData,
		models.StateAwaitingCancelSelection,
		models.StateAwaitingCancelConfirmation:
		return true
	}
	return false
}
