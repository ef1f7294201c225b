package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/maskfall/sim/oerror"
	"github.com/maskfall/sim/settings"
)

const CurrentRecordingVer = "1"

// Recording is a decoded session recording: the settings the session ran with followed by every
// frame it produced while recording.
type Recording struct {
	Version  string
	Settings settings.Settings
	Frames   []Frame
}

// header is written once at the start of a recording.
type header struct {
	Version  string            `cbor:"version"`
	Settings settings.Settings `cbor:"settings"`
}

type recorder struct {
	enc    *cbor.Encoder
	frames int
	err    error
}

// write encodes a frame. The first write error stops the recording, and is returned by StopRecording.
func (r *recorder) write(s *Session, f Frame) {
	if r.err != nil {
		return
	}
	if err := r.enc.Encode(f); err != nil {
		r.err = fmt.Errorf("unable to write frame %d: %w", f.Tick, err)
		s.log.Errorf("recording stopped: %v", r.err)
		return
	}
	r.frames++
}

// StartRecording starts writing every frame the Session produces to the writer passed, as a stream of
// CBOR items. The writer is not closed by the Session.
func (s *Session) StartRecording(w io.Writer) error {
	if s.rec != nil {
		return oerror.New("session is already recording")
	}
	enc := cbor.NewEncoder(w)
	if err := enc.Encode(header{Version: CurrentRecordingVer, Settings: s.conf}); err != nil {
		return fmt.Errorf("unable to write recording header: %w", err)
	}
	s.rec = &recorder{enc: enc}
	s.log.Debugf("recording started at tick %d", s.tick)
	return nil
}

// Recording returns true if the Session is recording.
func (s *Session) Recording() bool {
	return s.rec != nil
}

// StopRecording stops the running recording. It returns the error that interrupted the recording, if any.
func (s *Session) StopRecording() error {
	if s.rec == nil {
		return oerror.New("session is not recording")
	}
	rec := s.rec
	s.rec = nil
	s.log.Debugf("recording stopped after %d frames", rec.frames)
	return rec.err
}

// ReadRecording decodes a recording written by a Session. It returns an error if the recording could not
// be parsed, or if the version of the recording is not supported.
func ReadRecording(r io.Reader) (*Recording, error) {
	dec := cbor.NewDecoder(r)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("unable to decode recording header: %w", err)
	}
	if h.Version != CurrentRecordingVer {
		return nil, oerror.New("unsupported recording version: %s", h.Version)
	}

	rec := &Recording{Version: h.Version, Settings: h.Settings}
	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("unable to decode frame %d: %w", len(rec.Frames), err)
		}
		rec.Frames = append(rec.Frames, f)
	}
	return rec, nil
}
