// Package rpc holds the wire-level message shapes and gRPC service
// descriptors for the plugin session stream and the control-plane facade.
//
// There is no protoc-generated code here: the accompanying
// message-definition (.proto) file and protoc itself are unavailable in
// this environment. Rather than fake the protoreflect machinery
// real generated code requires, every message below is a plain Go struct
// carried over the wire by a small JSON codec (see codec.go) registered
// under the services' content-subtype — everything else about the gRPC
// idiom (ServiceDesc, Unimplemented*Server embed-by-value guard,
// grpc.GenericServerStream wrappers) is kept exactly as protoc-gen-go-grpc
// would emit it.
package rpc

import (
	"time"

	"github.com/kittynxr/maowbot/internal/event"
)

// Capability is a grantable plugin permission. The server only forwards bus
// event types and honors inbound request types a session's granted
// capability set actually covers.
type Capability string

const (
	CapReceiveChatEvents Capability = "ReceiveChatEvents"
	CapSendChat          Capability = "SendChat"
	CapSceneManagement   Capability = "SceneManagement"
	CapChatModeration    Capability = "ChatModeration"
)

// EnvelopeKind tags which field of Envelope is populated — this repo's
// dependency-free analogue of a protobuf oneof, the same pattern
// internal/event.Event uses for the bus's closed variant set.
type EnvelopeKind string

const (
	KindHello                EnvelopeKind = "hello"
	KindWelcome              EnvelopeKind = "welcome"
	KindAuthError            EnvelopeKind = "auth_error"
	KindRequestCapabilities  EnvelopeKind = "request_capabilities"
	KindCapabilityResponse   EnvelopeKind = "capability_response"
	KindLogMessage           EnvelopeKind = "log_message"
	KindRequestStatus        EnvelopeKind = "request_status"
	KindStatusResponse       EnvelopeKind = "status_response"
	KindSendChat             EnvelopeKind = "send_chat"
	KindSwitchScene          EnvelopeKind = "switch_scene"
	KindShutdown             EnvelopeKind = "shutdown"
	KindForceDisconnect      EnvelopeKind = "force_disconnect"
	KindChatMessage          EnvelopeKind = "chat_message"
	KindTick                 EnvelopeKind = "tick"
	KindPlatformEvent        EnvelopeKind = "platform_event"
	KindErrorResponse        EnvelopeKind = "error_response"
)

// Envelope is the single message type exchanged over the plugin bidi
// stream in both directions; Kind selects which pointer field is set.
type Envelope struct {
	Kind EnvelopeKind `json:"kind"`

	Hello                *Hello                `json:"hello,omitempty"`
	Welcome              *Welcome              `json:"welcome,omitempty"`
	AuthError            *AuthError            `json:"auth_error,omitempty"`
	RequestCapabilities  *RequestCapabilities  `json:"request_capabilities,omitempty"`
	CapabilityResponse   *CapabilityResponse   `json:"capability_response,omitempty"`
	LogMessage           *LogMessage           `json:"log_message,omitempty"`
	RequestStatus        *RequestStatus        `json:"request_status,omitempty"`
	StatusResponse       *StatusResponse       `json:"status_response,omitempty"`
	SendChat             *SendChat             `json:"send_chat,omitempty"`
	SwitchScene          *SwitchScene          `json:"switch_scene,omitempty"`
	Shutdown             *Shutdown             `json:"shutdown,omitempty"`
	ForceDisconnect      *ForceDisconnect      `json:"force_disconnect,omitempty"`
	ChatMessage          *ChatMessagePayload   `json:"chat_message,omitempty"`
	Tick                 *Tick                 `json:"tick,omitempty"`
	PlatformEvent        *PlatformEventPayload `json:"platform_event,omitempty"`
	ErrorResponse        *ErrorResponse        `json:"error_response,omitempty"`
}

// Hello is the one inbound message AwaitingHello accepts.
type Hello struct {
	PluginName string `json:"plugin_name"`
	Passphrase string `json:"passphrase,omitempty"`
}

// Welcome answers a successful Hello.
type Welcome struct {
	BotName string `json:"bot_name"`
}

// AuthError answers a failed passphrase check; the stream closes after.
type AuthError struct {
	Reason string `json:"reason"`
}

// RequestCapabilities is sent once, entering CapabilityNegotiation.
type RequestCapabilities struct {
	Requested []Capability `json:"requested"`
}

// CapabilityResponse answers RequestCapabilities.
type CapabilityResponse struct {
	Granted []Capability   `json:"granted"`
	Denied  []DenialReason `json:"denied,omitempty"`
}

// DenialReason explains why one requested capability was not granted.
type DenialReason struct {
	Capability Capability `json:"capability"`
	Reason     string     `json:"reason"`
}

// LogMessage lets a running plugin write to the bot's structured log.
type LogMessage struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// RequestStatus asks the server for a StatusResponse.
type RequestStatus struct{}

// StatusResponse answers RequestStatus.
type StatusResponse struct {
	Uptime         time.Duration `json:"uptime"`
	ActiveSessions int           `json:"active_sessions"`
	Version        string        `json:"version"`
}

// SendChat asks the server to relay a chat message (requires SendChat
// capability).
type SendChat struct {
	Platform event.Platform `json:"platform"`
	Account  string         `json:"account"`
	Channel  string         `json:"channel"`
	Text     string         `json:"text"`
}

// SwitchScene asks the server to switch an OBS scene (requires
// SceneManagement capability).
type SwitchScene struct {
	Account string `json:"account"`
	Scene   string `json:"scene"`
}

// Shutdown asks the server to end the session cleanly.
type Shutdown struct {
	Reason string `json:"reason,omitempty"`
}

// ForceDisconnect is sent by the server to end a session involuntarily.
type ForceDisconnect struct {
	Reason string `json:"reason"`
}

// ChatMessagePayload forwards a normalized chat event to a plugin with
// ReceiveChatEvents granted.
type ChatMessagePayload struct {
	Platform event.Platform `json:"platform"`
	Channel  string         `json:"channel"`
	UserID   string         `json:"user_id"`
	UserName string         `json:"user_name"`
	Text     string         `json:"text"`
	Time     time.Time      `json:"time"`
}

// PlatformEventPayload forwards any other normalized bus event to a plugin
// with SceneManagement (or a future event-specific capability) granted.
type PlatformEventPayload struct {
	Kind     string         `json:"kind"`
	Platform event.Platform `json:"platform"`
	Time     time.Time      `json:"time"`
	Metadata event.Metadata `json:"metadata,omitempty"`
}

// Tick is an idle keepalive the server may send on a configurable interval.
type Tick struct {
	Time time.Time `json:"time"`
}

// ErrorResponse answers an unsupported or unauthorized inbound request
// without terminating the session.
type ErrorResponse struct {
	InReplyTo EnvelopeKind `json:"in_reply_to"`
	Message   string       `json:"message"`
}
