package models

// ChannelSMS identifies the only channel this module dispatches on.
const ChannelSMS = "sms"

// Message is the outbound SMS/MMS value object handed to the dispatcher.
// Setters return the receiver so a message can be composed in one chain.
// No format validation happens here; the dispatcher checks required fields at
// send time.
type Message struct {
	from     string
	to       string
	textBody string
	mediaURL string
}

// NewMessage returns an empty message.
func NewMessage() *Message {
	return &Message{}
}

// SetFrom stores the sender (full number or short code).
func (m *Message) SetFrom(from string) *Message {
	m.from = from
	return m
}

// From returns the sender.
func (m *Message) From() string { return m.from }

// SetTo stores the recipient number, including the country code.
func (m *Message) SetTo(to string) *Message {
	m.to = to
	return m
}

// To returns the recipient.
func (m *Message) To() string { return m.to }

// SetTextBody stores the message content.
func (m *Message) SetTextBody(text string) *Message {
	m.textBody = text
	return m
}

// TextBody returns the message content.
func (m *Message) TextBody() string { return m.textBody }

// SetMessage is an alias for SetTextBody.
func (m *Message) SetMessage(text string) *Message {
	return m.SetTextBody(text)
}

// Message is an alias for TextBody.
func (m *Message) Message() string { return m.TextBody() }

// SetMediaURL attaches a media URL, turning the message into an MMS.
func (m *Message) SetMediaURL(url string) *Message {
	m.mediaURL = url
	return m
}

// MediaURL returns the attachment URL, empty when none is set.
func (m *Message) MediaURL() string { return m.mediaURL }

// String returns the body exactly as stored. This is the value transmitted to
// the provider.
func (m *Message) String() string { return m.textBody }
