package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a remark attached to a task.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	TaskID    uuid.UUID `json:"task"`
	CommentBy uuid.UUID `json:"commentBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reply is a standalone reply to a comment. ParentReplyID supports nested
// replies; a reply can never reference itself.
type Reply struct {
	ID            uuid.UUID  `json:"id"`
	Reply         string     `json:"reply"`
	ReplyBy       uuid.UUID  `json:"replyBy"`
	CommentID     uuid.UUID  `json:"comment"`
	ParentReplyID *uuid.UUID `json:"parentReply,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
