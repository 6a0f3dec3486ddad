package intake

// Payload is the JSON document carried in the webhook's "payload" form field:
//
//	{
//	  "id": 5,
//	  "name": "The Name of your Document",
//	  "content": "The plain-text markdown of your document",
//	  "content_html": "Your document rendered as HTML",
//	  "user": {"id": 1, "email": "usersemail@example.com"},
//	  "created_at": "2013-05-23T14:11:54-05:00",
//	  "updated_at": "2013-05-23T14:11:58-05:00"
//	}
//
// Fields are pointers so a missing key can be told apart from a zero value.
type Payload struct {
	ID          *int64       `json:"id"`
	Name        *string      `json:"name"`
	Content     *string      `json:"content"`
	ContentHTML *string      `json:"content_html"`
	User        *PayloadUser `json:"user"`
	CreatedAt   *string      `json:"created_at"`
	UpdatedAt   *string      `json:"updated_at"`
}

// PayloadUser identifies the author in the origin tool.
type PayloadUser struct {
	ID    *int64  `json:"id"`
	Email *string `json:"email"`
}

// MissingKey returns the first required key absent from the payload, or "".
func (p *Payload) MissingKey() string {
	switch {
	case p.ID == nil:
		return "id"
	case p.Name == nil:
		return "name"
	case p.Content == nil:
		return "content"
	case p.ContentHTML == nil:
		return "content_html"
	case p.User == nil || p.User.ID == nil:
		return "user.id"
	case p.User.Email == nil:
		return "user.email"
	case p.CreatedAt == nil:
		return "created_at"
	case p.UpdatedAt == nil:
		return "updated_at"
	}
	return ""
}
