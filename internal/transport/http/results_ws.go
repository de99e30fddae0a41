package http

import (
	"log"
	"net/http"
	"time"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// ResultsFeedHandler streams summaries of newly submitted results to admins over a websocket.
type ResultsFeedHandler struct {
	quiz     *app.QuizService
	auth     *app.AuthService
	upgrader websocket.Upgrader
}

func NewResultsFeedHandler(quiz *app.QuizService, auth *app.AuthService) *ResultsFeedHandler {
	return &ResultsFeedHandler{
		quiz: quiz,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS authenticates the ?token= query parameter or a bearer header, upgrades and
// forwards feed updates until the client goes away.
func (h *ResultsFeedHandler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = bearerToken(c.GetHeader("Authorization"))
	}
	if token == "" {
		respondError(c, domain.ErrInvalidToken)
		return
	}
	admin, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.quiz.SubscribeResults(c.Request.Context())
	defer cancel()
	log.Printf("results feed opened for admin %s", admin.ID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer; gorilla connections allow one concurrent writer
	go func() {
		defer close(writerDone)
		// a dead writer must also stop the read loop below
		defer conn.Close()
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case msg, ok := <-send:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case summary, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "result", Payload: summary}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "subscribed", Payload: gin.H{"adminId": admin.ID}}

	// the feed is one-way; reads only detect the client going away
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
	log.Printf("results feed closed for admin %s", admin.ID)
}
