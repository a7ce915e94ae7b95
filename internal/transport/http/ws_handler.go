package http

import (
	"net/http"

	"go.uber.org/zap"
	"lesson-quiz-service/internal/domain"
	"lesson-quiz-service/internal/identity"
)

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeResultsWS streams results saved by the caller while the socket is open.
func (h *Handler) ServeResultsWS(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe(userID)
	defer cancel()

	// Reads only detect the peer closing; inbound messages are ignored.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(outboundMessage[map[string]string]{Type: "subscribed", Payload: map[string]string{"userId": userID}}); err != nil {
		return
	}
	for {
		select {
		case result, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage[domain.UserResult]{Type: "result", Payload: result}); err != nil {
				h.log.Warn("ws write error", zap.Error(err))
				return
			}
		case <-closed:
			return
		}
	}
}
