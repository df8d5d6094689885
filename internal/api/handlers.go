package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dpetrov/go-messenger/internal/rtm"
	"github.com/dpetrov/go-messenger/internal/stats"
	"github.com/dpetrov/go-messenger/internal/types"
	"github.com/gorilla/websocket"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Confirm  string `json:"confirm_password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberIds   []int  `json:"member_ids"`
}

type CreateChannelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type SubscriptionRequest struct {
	ChannelId int  `json:"channel_id"`
	Subscribe bool `json:"subscribe"`
}

type SubscriptionResponse struct {
	ChannelId       int  `json:"channel_id"`
	Subscribed      bool `json:"subscribed"`
	SubscriberCount int  `json:"subscriber_count"`
}

type AdminRequest struct {
	ChannelId int `json:"channel_id"`
	UserId    int `json:"user_id"`
}

type PostMessageRequest struct {
	Kind       string `json:"kind"`
	ReceiverId int    `json:"receiver_id"`
	GroupId    int    `json:"group_id"`
	ChannelId  int    `json:"channel_id"`
	Text       string `json:"message_text"`
}

func (s *MessengerApp) writeJson(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("failed to write response: %v", err)
	}
}

// conversationFor maps the flat kind plus target-id request shape onto a
// Conversation. Exactly one target id must be set and it must agree with
// the kind when the kind is given.
func conversationFor(kind string, receiverId, groupId, channelId int) (types.Conversation, bool) {
	set := 0
	var conv types.Conversation
	if receiverId > 0 {
		set++
		conv = types.DirectWith(receiverId)
	}
	if groupId > 0 {
		set++
		conv = types.InGroup(groupId)
	}
	if channelId > 0 {
		set++
		conv = types.InChannel(channelId)
	}

	if set != 1 {
		return types.Conversation{}, false
	}
	if kind != "" && types.ConversationKind(kind) != conv.Kind {
		return types.Conversation{}, false
	}

	return conv, true
}

func (s *MessengerApp) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.core.Register(req.Username, req.Phone, req.Password, req.Confirm)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.stats.Incr(stats.AccountsCreated)
	s.writeJson(w, http.StatusCreated, user)
}

func (s *MessengerApp) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.core.VerifyCredentials(req.Username, req.Password)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	tokenString, err := s.createJwtForSession(user, defaultJwtExpiration)
	if err != nil {
		s.log.Printf("failed to create session token: %v", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	http.SetCookie(w, createJwtCookie(tokenString, defaultJwtExpiration))
	s.writeJson(w, http.StatusOK, user)
}

func (s *MessengerApp) session(w http.ResponseWriter, r *http.Request) {
	userId, ok := UserId(r.Context())
	if !ok {
		errResp := NewUnauthorizedError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.core.GetUser(userId)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, user)
}

func (s *MessengerApp) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieKey,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (s *MessengerApp) listUsers(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	users, err := s.core.ListVisibleUsers(userId)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, users)
}

func (s *MessengerApp) listGroups(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	groups, err := s.core.ListMyGroups(userId)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, groups)
}

func (s *MessengerApp) createGroup(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	group, err := s.core.CreateGroup(userId, req.Name, req.Description, req.MemberIds)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, group)
}

func (s *MessengerApp) listChannels(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	channels, err := s.core.ListVisibleChannels(userId)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, channels)
}

func (s *MessengerApp) createChannel(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	var req CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	channel, err := s.core.CreateChannel(userId, req.Name, req.Description, req.IsPublic)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusCreated, channel)
}

func (s *MessengerApp) setSubscription(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	var req SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChannelId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	count, err := s.core.SetSubscription(req.ChannelId, userId, req.Subscribe)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, SubscriptionResponse{
		ChannelId:       req.ChannelId,
		Subscribed:      req.Subscribe,
		SubscriberCount: count,
	})
}

func (s *MessengerApp) listAdmins(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	channelId, err := strconv.Atoi(r.URL.Query().Get("channel_id"))
	if err != nil || channelId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	admins, err := s.core.ListAdmins(channelId, userId)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, admins)
}

func (s *MessengerApp) addAdmin(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	var req AdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChannelId <= 0 || req.UserId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.core.AddAdmin(req.ChannelId, req.UserId, userId); err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *MessengerApp) removeAdmin(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	var req AdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChannelId <= 0 || req.UserId <= 0 {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := s.core.RemoveAdmin(req.ChannelId, req.UserId, userId); err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *MessengerApp) getMessages(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	q := r.URL.Query()
	conv, ok := conversationFor(
		q.Get("kind"),
		atoiOrZero(q.Get("receiver_id")),
		atoiOrZero(q.Get("group_id")),
		atoiOrZero(q.Get("channel_id")),
	)
	if !ok {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	messages, err := s.core.ListMessages(userId, conv)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, messages)
}

func (s *MessengerApp) postMessage(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	conv, ok := conversationFor(req.Kind, req.ReceiverId, req.GroupId, req.ChannelId)
	if !ok {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	msg, err := s.core.PostMessage(userId, conv, req.Text)
	if err != nil {
		errResp := apiErrorFor(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.stats.Incr(stats.MessagesPosted)
	s.hub.Notify(msg, conv)
	s.writeJson(w, http.StatusCreated, msg)
}

func (s *MessengerApp) serveWs(w http.ResponseWriter, r *http.Request) {
	userId, _ := UserId(r.Context())

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("failed to upgrade connection: %v", err)
		return
	}

	client := rtm.NewClient(userId, conn, s.hub, s.log)
	s.hub.RegisterClient(client)

	go client.Write()
	go client.Read()
}

func (s *MessengerApp) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}
