package domain

type Message struct {
	ID         string `json:"_id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
	Deleted    bool   `json:"deleted"`
	Updated    bool   `json:"updated"`
}

type ChatPreview struct {
	ChatID      string      `json:"chatId"`
	BuyerID     string      `json:"buyerId"`
	SellerID    string      `json:"sellerId"`
	LastMessage string      `json:"lastMessage"`
	Timestamp   string      `json:"timestamp,omitempty"`
	OtherUser   UserProfile `json:"otherUser"`
}
