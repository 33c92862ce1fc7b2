package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ashureev/wattwise/internal/domain"
	"github.com/ashureev/wattwise/internal/texts"
)

const feedbackCommentMaxRunes = 400

// handleFeedback takes an optional star rating followed by a one-message
// comment. Typing "-" skips the comment.
func handleFeedback(ctx context.Context, c *Controller, sess *domain.Session, ev Event) (Prompt, bool, error) {
	if star, ok := buttonSuffix(ev, "fb:"); ok {
		n, err := strconv.Atoi(star)
		if err != nil || n < 1 || n > 5 {
			return Prompt{}, false, nil
		}
		sess.Draft.Stars = n
		return Prompt{Text: fmt.Sprintf(texts.FeedbackRatedFmt, n)}, true, nil
	}

	if ev.Kind != EventText {
		return Prompt{}, false, nil
	}

	comment := strings.TrimSpace(ev.Text)
	if comment == "-" {
		comment = ""
	}
	if runes := []rune(comment); len(runes) > feedbackCommentMaxRunes {
		comment = string(runes[:feedbackCommentMaxRunes])
	}

	payload := map[string]any{"comment": comment}
	if sess.Draft.Stars > 0 {
		payload["star"] = sess.Draft.Stars
	}
	if err := c.audit(ctx, sess, "feedback_submitted", withPayload(payload)); err != nil {
		return Prompt{}, false, err
	}

	sess.State = domain.StateIdle
	sess.Flow = domain.FlowNone
	sess.ResetDraft()

	return Prompt{
		Notices: []string{texts.Thanks},
		Text:    texts.Menu,
		Choices: texts.MenuChoices(),
	}, true, nil
}
