package of10

import (
	"fmt"

	"github.com/flowforge/goflow10/internal/byteio"
)

// FlowModCommand is the flow-table operation a FlowMod requests.
type FlowModCommand uint16

const (
	FlowModCommandAdd           FlowModCommand = 0
	FlowModCommandModify        FlowModCommand = 1
	FlowModCommandModifyStrict  FlowModCommand = 2
	FlowModCommandDelete        FlowModCommand = 3
	FlowModCommandDeleteStrict  FlowModCommand = 4
)

func (c FlowModCommand) String() string {
	switch c {
	case FlowModCommandAdd:
		return "Add"
	case FlowModCommandModify:
		return "Modify"
	case FlowModCommandModifyStrict:
		return "ModifyStrict"
	case FlowModCommandDelete:
		return "Delete"
	case FlowModCommandDeleteStrict:
		return "DeleteStrict"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(c))
	}
}

// NoBufferID is the sentinel value meaning "no buffered packet".
const NoBufferID uint32 = 0xFFFFFFFF

// flowModTailLen is the fixed body length after the match: cookie(8) +
// command(2) + idle(2) + hard(2) + priority(2) + buffer_id(4) +
// out_port(2) + flags(2) = 24. The 40-byte match precedes it on the
// wire (ofp_flow_mod places match first).
const flowModTailLen = 24

// FlowModFlag bits (ofp_flow_mod_flags).
const (
	FlowModFlagSendFlowRem  uint16 = 1 << 0
	FlowModFlagCheckOverlap uint16 = 1 << 1
	FlowModFlagEmergency    uint16 = 1 << 2
)

// FlowMod is the body of a FlowMod message.
type FlowMod struct {
	Match       Match
	Cookie      uint64
	Command     FlowModCommand
	IdleTimeout uint16
	HardTimeout uint16
	Priority    uint16
	BufferID    uint32
	OutPort     uint16
	Flags       uint16
	Actions     []Action
}

// DecodeFlowMod decodes a FlowMod body: 40-byte match, then the fixed
// tail, then an action list consuming the remainder.
func DecodeFlowMod(buf []byte) (FlowMod, error) {
	if len(buf) < matchLen+flowModTailLen {
		return FlowMod{}, fmt.Errorf("flow_mod body needs %d bytes, got %d: %w", matchLen+flowModTailLen, len(buf), ErrTruncated)
	}

	match, err := DecodeMatch(buf[:matchLen])
	if err != nil {
		return FlowMod{}, fmt.Errorf("decode match: %w", err)
	}

	r := byteio.NewReader(buf[matchLen : matchLen+flowModTailLen])
	var fm FlowMod
	fm.Match = match
	fm.Cookie, _ = r.ReadU64()
	cmd, _ := r.ReadU16()
	if cmd > uint16(FlowModCommandDeleteStrict) {
		return FlowMod{}, invalidEnum("flow_mod command", int(cmd))
	}
	fm.Command = FlowModCommand(cmd)
	fm.IdleTimeout, _ = r.ReadU16()
	fm.HardTimeout, _ = r.ReadU16()
	fm.Priority, _ = r.ReadU16()
	fm.BufferID, _ = r.ReadU32()
	fm.OutPort, _ = r.ReadU16()
	fm.Flags, _ = r.ReadU16()

	actionBuf := buf[matchLen+flowModTailLen:]
	actions, err := DecodeActionList(actionBuf)
	if err != nil {
		return FlowMod{}, fmt.Errorf("decode flow_mod actions: %w", err)
	}
	fm.Actions = actions

	return fm, nil
}

// EncodeFlowMod serializes a FlowMod body. A Delete or
// DeleteStrict command still emits the Priority field on the wire even
// though the switch ignores it for those commands.
func EncodeFlowMod(fm FlowMod) []byte {
	actionsBuf := EncodeActionList(fm.Actions)
	w := byteio.NewWriterSize(matchLen + flowModTailLen + len(actionsBuf))

	w.WriteBytes(EncodeMatch(fm.Match))
	w.WriteU64(fm.Cookie)
	w.WriteU16(uint16(fm.Command))
	w.WriteU16(fm.IdleTimeout)
	w.WriteU16(fm.HardTimeout)
	w.WriteU16(fm.Priority)
	w.WriteU32(fm.BufferID)
	w.WriteU16(fm.OutPort)
	w.WriteU16(fm.Flags)
	w.WriteBytes(actionsBuf)

	return w.Bytes()
}
