package msgs

import (
	"errors"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/mcv4b/pkg/framework"
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandOK) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// CommandErr is the generic message representing command error.
type CommandErr struct {
	Message string `protobuf:"bytes,1,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return NewCommandErrFromMsg(err.Error())
}

// NewCommandErrFromMsg creates a CommandErr.
func NewCommandErrFromMsg(message string) *CommandErr {
	return &CommandErr{Message: message}
}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CommandErr) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// VersionQuery queries the firmware version.
type VersionQuery struct {
}

// NewMessage implements Message.
func (m *VersionQuery) NewMessage() fx.Message { return &VersionQuery{} }

// TypeID implements SerializableMessage.
func (m *VersionQuery) TypeID() uint32 { return VersionQueryTypeID }

// Serializable implements SerializableMessage.
func (m *VersionQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VersionQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VersionQuery) Reset() { *m = VersionQuery{} }

// String implements proto.Message.
func (m *VersionQuery) String() string { return proto.CompactTextString(m) }

// VersionReply is the response for VersionQuery.
type VersionReply struct {
	Version uint32 `protobuf:"varint,1,opt,name=version,proto3" json:"version,omitempty"`
}

// NewMessage implements Message.
func (m *VersionReply) NewMessage() fx.Message { return &VersionReply{} }

// TypeID implements SerializableMessage.
func (m *VersionReply) TypeID() uint32 { return VersionReplyTypeID }

// Serializable implements SerializableMessage.
func (m *VersionReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *VersionReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *VersionReply) Reset() { *m = VersionReply{} }

// String implements proto.Message.
func (m *VersionReply) String() string { return proto.CompactTextString(m) }

// EnterUpdateMode reboots the board into the update-mode image.
type EnterUpdateMode struct {
}

// NewMessage implements Message.
func (m *EnterUpdateMode) NewMessage() fx.Message { return &EnterUpdateMode{} }

// TypeID implements SerializableMessage.
func (m *EnterUpdateMode) TypeID() uint32 { return EnterUpdateModeTypeID }

// Serializable implements SerializableMessage.
func (m *EnterUpdateMode) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *EnterUpdateMode) ProtoMessage() {}

// Reset implements proto.Message.
func (m *EnterUpdateMode) Reset() { *m = EnterUpdateMode{} }

// String implements proto.Message.
func (m *EnterUpdateMode) String() string { return proto.CompactTextString(m) }

// LinkSync brings the board protocol back to idle.
type LinkSync struct {
}

// NewMessage implements Message.
func (m *LinkSync) NewMessage() fx.Message { return &LinkSync{} }

// TypeID implements SerializableMessage.
func (m *LinkSync) TypeID() uint32 { return LinkSyncTypeID }

// Serializable implements SerializableMessage.
func (m *LinkSync) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkSync) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkSync) Reset() { *m = LinkSync{} }

// String implements proto.Message.
func (m *LinkSync) String() string { return proto.CompactTextString(m) }

// MotorDrive drives a channel with signed velocity.
type MotorDrive struct {
	Channel  uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Velocity int32  `protobuf:"zigzag32,2,opt,name=velocity,proto3" json:"velocity,omitempty"`
}

// NewMessage implements Message.
func (m *MotorDrive) NewMessage() fx.Message { return &MotorDrive{} }

// TypeID implements SerializableMessage.
func (m *MotorDrive) TypeID() uint32 { return MotorDriveTypeID }

// Serializable implements SerializableMessage.
func (m *MotorDrive) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *MotorDrive) ProtoMessage() {}

// Reset implements proto.Message.
func (m *MotorDrive) Reset() { *m = MotorDrive{} }

// String implements proto.Message.
func (m *MotorDrive) String() string { return proto.CompactTextString(m) }

// MotorSpeed sends a raw speed byte to a channel.
type MotorSpeed struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Speed   uint32 `protobuf:"varint,2,opt,name=speed,proto3" json:"speed,omitempty"`
}

// NewMessage implements Message.
func (m *MotorSpeed) NewMessage() fx.Message { return &MotorSpeed{} }

// TypeID implements SerializableMessage.
func (m *MotorSpeed) TypeID() uint32 { return MotorSpeedTypeID }

// Serializable implements SerializableMessage.
func (m *MotorSpeed) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *MotorSpeed) ProtoMessage() {}

// Reset implements proto.Message.
func (m *MotorSpeed) Reset() { *m = MotorSpeed{} }

// String implements proto.Message.
func (m *MotorSpeed) String() string { return proto.CompactTextString(m) }

// MotorDisable lets a channel coast.
type MotorDisable struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
}

// NewMessage implements Message.
func (m *MotorDisable) NewMessage() fx.Message { return &MotorDisable{} }

// TypeID implements SerializableMessage.
func (m *MotorDisable) TypeID() uint32 { return MotorDisableTypeID }

// Serializable implements SerializableMessage.
func (m *MotorDisable) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *MotorDisable) ProtoMessage() {}

// Reset implements proto.Message.
func (m *MotorDisable) Reset() { *m = MotorDisable{} }

// String implements proto.Message.
func (m *MotorDisable) String() string { return proto.CompactTextString(m) }

// LinkStatus is an Event message reflecting the serial link to the board.
type LinkStatus struct {
	URL       string `protobuf:"bytes,1,opt,name=url,proto3" json:"url,omitempty"`
	Connected bool   `protobuf:"varint,2,opt,name=connected,proto3" json:"connected,omitempty"`
	Version   uint32 `protobuf:"varint,3,opt,name=version,proto3" json:"version,omitempty"`
	Error     string `protobuf:"bytes,4,opt,name=error,proto3" json:"error,omitempty"`
}

// NewMessage implements Message.
func (m *LinkStatus) NewMessage() fx.Message { return &LinkStatus{} }

// TypeID implements SerializableMessage.
func (m *LinkStatus) TypeID() uint32 { return LinkStatusTypeID }

// Serializable implements SerializableMessage.
func (m *LinkStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *LinkStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkStatus) Reset() { *m = LinkStatus{} }

// String implements proto.Message.
func (m *LinkStatus) String() string { return proto.CompactTextString(m) }

// TypeID Groups
const (
	GroupCommand uint32 = 0x00000000
	GroupDevice  uint32 = 0x00010000
	GroupMotor   uint32 = 0x00030000
	GroupCustom  uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID       uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID      uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	VersionQueryTypeID    uint32 = GroupDevice | 0x0000
	VersionReplyTypeID    uint32 = VersionQueryTypeID | TypeIDMaskReply
	EnterUpdateModeTypeID uint32 = GroupDevice | 0x0001
	LinkSyncTypeID        uint32 = GroupDevice | 0x0002
	LinkStatusTypeID      uint32 = GroupDevice | TypeIDKindEvent | 0x0000
	MotorDriveTypeID      uint32 = GroupMotor | 0x0000
	MotorSpeedTypeID      uint32 = GroupMotor | 0x0001
	MotorDisableTypeID    uint32 = GroupMotor | 0x0002
)

var (
	// ErrUnknownCommand indicates the command is unknown.
	ErrUnknownCommand = errors.New("unknown command")
)
