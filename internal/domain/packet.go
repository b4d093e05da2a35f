package domain

type PacketKind uint8

const (
	PacketVideo PacketKind = iota
	PacketAudio
	PacketScript
)

// Packet is one encoded media unit in FLV tag body form.
type Packet struct {
	Kind      PacketKind
	Timestamp uint32
	Payload   []byte
}

func (k PacketKind) String() string {
	switch k {
	case PacketVideo:
		return "video"
	case PacketAudio:
		return "audio"
	case PacketScript:
		return "script"
	}
	return "unknown"
}
