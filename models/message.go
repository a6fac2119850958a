package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Message lives in the "messages" mongo collection; sender and receiver
// reference relational user ids.
type Message struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Content    string        `bson:"content" json:"content"`
	SenderID   uint          `bson:"senderId" json:"senderId"`
	ReceiverID uint          `bson:"receiverId" json:"receiverId"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
}
