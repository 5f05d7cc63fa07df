package ws

// Типы событий, которые ходят по WS
const (
	TypeChat    = "chat"     // сообщение (входящее от клиента и рассылка)
	TypeChatAck = "chat_ack" // подтверждение отправителю (НЕ сообщение)
	TypeError   = "error"    // отказ отправки
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Входящий chat-кадр: получатель + текст; комната резолвится сервисом.
type ChatPayload struct {
	ReceiverID string   `json:"receiver_id"`
	Message    string   `json:"message"`
	Documents  []string `json:"documents,omitempty"`

	// заполняются при рассылке
	MsgID      string `json:"msg_id,omitempty"`
	RoomID     string `json:"room_id,omitempty"`
	SenderID   string `json:"sender_id,omitempty"`
	SenderRole string `json:"sender_role,omitempty"`
	TSUnix     int64  `json:"ts_unix,omitempty"`
}

// для client: снятие pending и дедупликация
type ChatAckPayload struct {
	MsgID  string `json:"msg_id"`
	RoomID string `json:"room_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
