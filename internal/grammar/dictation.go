package grammar

import "github.com/rbright/parola/internal/dictation"

// Dictation matches a run of free dictation words. It is greedy: the
// longest run is yielded first, then shorter ones down to a single
// word. Words tagged by command rules stop the run unless the state
// allows dictated word guesses.
type Dictation struct {
	elem
	format bool
}

// NewDictation returns an element matching one or more dictated words.
func NewDictation() *Dictation {
	return &Dictation{format: true}
}

// SetFormat controls whether the value applies spoken-form formatting
// or keeps the raw words.
func (e *Dictation) SetFormat(format bool) { e.format = format }

func (e *Dictation) Decode(s *State) Decoder {
	return &dictationDecoder{s: s, el: e}
}

func (e *Dictation) Value(n *Node) any {
	return dictation.NewContainer(n.Words(), e.format)
}

type dictationDecoder struct {
	s     *State
	el    *Dictation
	take  int
	phase int
}

func (d *dictationDecoder) Next() bool {
	switch d.phase {
	case 0:
		d.s.DecodeAttempt(d.el)
		count := 0
		for {
			w, ok := d.s.Word(count)
			if !ok {
				break
			}
			if !w.IsDictated() && !d.s.DictatedWordGuesses {
				break
			}
			count++
		}
		if count == 0 {
			d.s.DecodeFailure(d.el)
			d.phase = 2
			return false
		}
		d.take = count
		d.s.Next(d.take)
		d.s.DecodeSuccess(d.el)
		d.phase = 1
		return true
	case 1:
		d.s.DecodeRetry(d.el)
		d.s.DecodeRollback(d.el)
		d.take--
		if d.take >= 1 {
			d.s.Next(d.take)
			d.s.DecodeSuccess(d.el)
			return true
		}
		d.s.DecodeFailure(d.el)
		d.phase = 2
		return false
	default:
		return false
	}
}
