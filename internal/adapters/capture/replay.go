package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/dkeye/livecast/internal/domain"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog"
	"github.com/yutopp/go-amf0"
	"github.com/yutopp/go-flv"
	flvtag "github.com/yutopp/go-flv/tag"
)

type deliverFunc func(pkt domain.Packet, preview []byte, frame uint32)

// replayer paces FLV tags against the wall clock. Timestamps keep growing
// across loops and restarts so downstream muxers never see them rewind.
type replayer struct {
	path   string
	loop   bool
	offset uint32
	out    deliverFunc
	logger zerolog.Logger

	paramSets []byte
	lastVideo uint32
}

// run returns the last timestamp emitted.
func (r *replayer) run(ctx context.Context, f *os.File) uint32 {
	defer f.Close()
	last := r.offset
	for {
		end, err := r.pass(ctx, f, last)
		last = end
		switch {
		case ctx.Err() != nil:
			return last
		case err != nil:
			r.logger.Error().Err(err).Str("path", r.path).Msg("replay aborted")
			return last
		case !r.loop:
			r.logger.Info().Str("path", r.path).Msg("replay finished")
			return last
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			r.logger.Error().Err(err).Msg("rewind")
			return last
		}
	}
}

func (r *replayer) pass(ctx context.Context, f io.Reader, base uint32) (uint32, error) {
	dec, err := flv.NewDecoder(f)
	if err != nil {
		return base, err
	}
	start := time.Now()
	first, haveFirst := uint32(0), false
	last := base
	for {
		var tag flvtag.FlvTag
		if err := dec.Decode(&tag); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return last, nil
			}
			return last, err
		}
		if !haveFirst {
			first, haveFirst = tag.Timestamp, true
		}
		rel := tag.Timestamp - first
		if err := sleepUntil(ctx, start.Add(time.Duration(rel)*time.Millisecond)); err != nil {
			return last, nil
		}
		ts := base + rel
		if err := r.emit(&tag, ts); err != nil {
			r.logger.Warn().Err(err).Uint32("ts", ts).Msg("skipping tag")
		}
		last = ts
	}
}

func (r *replayer) emit(tag *flvtag.FlvTag, ts uint32) error {
	var buf bytes.Buffer
	switch data := tag.Data.(type) {
	case *flvtag.AudioData:
		if err := flvtag.EncodeAudioData(&buf, data); err != nil {
			return err
		}
		r.out(domain.Packet{Kind: domain.PacketAudio, Timestamp: ts, Payload: buf.Bytes()}, nil, 0)

	case *flvtag.VideoData:
		raw, err := io.ReadAll(data.Data)
		if err != nil {
			return err
		}
		preview := r.previewFrame(data, raw)
		data.Data = bytes.NewReader(raw)
		if err := flvtag.EncodeVideoData(&buf, data); err != nil {
			return err
		}
		frame := ts - r.lastVideo
		if r.lastVideo == 0 || frame > 1000 {
			frame = 33
		}
		r.lastVideo = ts
		r.out(domain.Packet{Kind: domain.PacketVideo, Timestamp: ts, Payload: buf.Bytes()}, preview, frame)

	case *flvtag.ScriptData:
		enc := amf0.NewEncoder(&buf)
		for name, obj := range data.Objects {
			if err := enc.Encode(name); err != nil {
				return err
			}
			if err := enc.Encode(obj); err != nil {
				return err
			}
		}
		r.out(domain.Packet{Kind: domain.PacketScript, Timestamp: ts, Payload: buf.Bytes()}, nil, 0)

	default:
		return errors.New("unknown tag data")
	}
	return nil
}

// previewFrame converts an AVC tag into an Annex-B access unit. Sequence
// headers are remembered and prepended to key frames.
func (r *replayer) previewFrame(v *flvtag.VideoData, raw []byte) []byte {
	if v.CodecID != flvtag.CodecIDAVC {
		return nil
	}
	switch v.AVCPacketType {
	case flvtag.AVCPacketTypeSequenceHeader:
		ps, err := parameterSets(raw)
		if err != nil {
			r.logger.Warn().Err(err).Msg("bad sequence header")
			return nil
		}
		r.paramSets = ps
		return nil
	case flvtag.AVCPacketTypeNALU:
		au, err := annexB(raw)
		if err != nil {
			r.logger.Warn().Err(err).Msg("bad nalu payload")
			return nil
		}
		if v.FrameType == flvtag.FrameTypeKeyFrame && r.paramSets != nil {
			au = append(append([]byte(nil), r.paramSets...), au...)
		}
		return au
	}
	return nil
}

func sample(au []byte, frameMs uint32) media.Sample {
	return media.Sample{Data: au, Duration: time.Duration(frameMs) * time.Millisecond}
}

func sleepUntil(ctx context.Context, at time.Time) error {
	d := time.Until(at)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
