package types

// ChatID is the internal identifier of a registered chat. It is opaque to the
// pipeline and unrelated to the Telegram chat id.
type ChatID string

func (x ChatID) String() string { return string(x) }

// WebhookURL is the opaque token embedded in the inbound webhook path.
type WebhookURL string

func (x WebhookURL) String() string { return string(x) }
