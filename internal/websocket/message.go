package websocket

// Client to server message types
const (
	MessageTypeJoinRoom        = "join_room"
	MessageTypeStartGame       = "start_game"
	MessageTypeGetState        = "get_state"
	MessageTypeChooseTruthDare = "choose_truth_dare"
	MessageTypeSubmitAnswer    = "submit_answer"
)

// Server to client message types
const (
	MessageTypeRoomState             = "room_state"
	MessageTypeQuestionSent          = "question_sent"
	MessageTypeAnswerSubmitted       = "answer_submitted"
	MessageTypeAdminQuestionInjected = "admin_question_injected"
	MessageTypeError                 = "error"
)

// ClientMessage is the flat envelope clients send; fields beyond Type are
// populated per message type.
type ClientMessage struct {
	Type       string `json:"type"`
	PlayerID   string `json:"player_id,omitempty"`
	Choice     string `json:"choice,omitempty"`
	AnswerText string `json:"answer_text,omitempty"`
}

type RoomInfo struct {
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
	IsFull   bool   `json:"is_full"`
}

type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	JoinOrder int    `json:"join_order"`
}

type GameStateInfo struct {
	RoundNumber           int     `json:"round_number"`
	CurrentTurnPlayerID   *string `json:"current_turn_player_id"`
	CurrentTurnPlayerName *string `json:"current_turn_player_name"`
	CurrentChoice         string  `json:"current_choice"`
	IsWaitingForQuestion  bool    `json:"is_waiting_for_question"`
	IsWaitingForAnswer    bool    `json:"is_waiting_for_answer"`
}

type QuestionInfo struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Type   string `json:"type"`
	Source string `json:"source"`
}

type RoomStateMessage struct {
	Type            string         `json:"type"`
	Room            RoomInfo       `json:"room"`
	Players         []PlayerInfo   `json:"players"`
	GameState       *GameStateInfo `json:"game_state"`
	CurrentQuestion *QuestionInfo  `json:"current_question"`
}

type QuestionSentMessage struct {
	Type     string       `json:"type"`
	Question QuestionInfo `json:"question"`
}

type AnswerSubmittedMessage struct {
	Type     string  `json:"type"`
	NextTurn *string `json:"next_turn"`
}

type AdminQuestionInjectedMessage struct {
	Type     string       `json:"type"`
	Question QuestionInfo `json:"question"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorMessage(message string) ErrorMessage {
	return ErrorMessage{Type: MessageTypeError, Message: message}
}
