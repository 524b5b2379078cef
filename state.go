package xmlpush

import (
	"bytes"
	"errors"

	"github.com/lestrrat-go/xmlpush/encoding"
	"github.com/lestrrat-go/xmlpush/internal/debug"
	"github.com/lestrrat-go/xmlpush/internal/pool"
	"golang.org/x/text/transform"
)

// State returns the lifecycle state of the parser.
func (p *Parser) State() State {
	return p.state
}

// ErrorCode returns the code of the last failure. Control calls that
// are rejected update it even though they leave the state unchanged.
func (p *Parser) ErrorCode() ErrorCode {
	return p.code
}

// Err returns the error that finished the parse, if any.
func (p *Parser) Err() error {
	return p.err
}

// Stop suspends (resumable == true) or aborts (resumable == false) the
// parser. When called from within a callback the transition takes effect
// once the current token has been reported.
//
// A suspended parser cannot be suspended again, but it can always be
// aborted. A finished parser rejects both.
func (p *Parser) Stop(resumable bool) error {
	from := p.state
	var err error
	switch p.state {
	case StateRunning:
		if resumable {
			p.state = StateSuspended
		} else {
			p.state = StateFinished
		}
	case StateSuspended:
		if resumable {
			err = p.reject(ErrAlreadySuspended)
		} else {
			p.state = StateFinished
		}
	default:
		err = p.reject(ErrAlreadyFinished)
	}
	p.traceState("stop", from, err)
	return err
}

// Resume continues a suspended parser from where it left off, over the
// input that was already fed.
func (p *Parser) Resume() (Status, error) {
	if p.state != StateSuspended {
		err := p.reject(ErrNotSuspended)
		p.traceState("resume", p.state, err)
		return StatusError, err
	}
	p.state = StateRunning
	p.traceState("resume", StateSuspended, nil)
	return p.parse()
}

// Feed hands the next chunk of input to the parser. final signals that
// no more input will follow. Callbacks are invoked synchronously.
func (p *Parser) Feed(data []byte, final bool) (Status, error) {
	switch p.state {
	case StateSuspended:
		return StatusError, p.reject(ErrAlreadySuspended)
	case StateFinished:
		return StatusError, p.reject(ErrAlreadyFinished)
	}
	p.started = true
	p.raw = append(p.raw, data...)
	if final {
		p.final = true
	}
	return p.parse()
}

func (p *Parser) reject(code ErrorCode) error {
	p.code = code
	return code
}

func (p *Parser) parse() (Status, error) {
	if p.instate == psStart {
		ready, err := p.startDocument()
		if err != nil {
			return p.fail(err)
		}
		if !ready {
			return p.outcome()
		}
	}
	if err := p.decodeInput(); err != nil {
		return p.fail(err)
	}
	return p.run()
}

// decodeInput moves as many raw bytes as possible into the document
// frame, converting them to UTF-8.
func (p *Parser) decodeInput() error {
	if len(p.raw) == 0 {
		return nil
	}
	doc := p.inputs[0]
	scratch := pool.ByteSlice().GetCapacity(4 * len(p.raw))
	defer pool.ByteSlice().Put(scratch)
	dst := scratch[:cap(scratch)]
	for len(p.raw) > 0 {
		nDst, nSrc, err := p.decoder.Transform(dst, p.raw, p.final)
		doc.buf = append(doc.buf, dst[:nDst]...)
		p.raw = p.raw[nSrc:]
		switch {
		case err == nil:
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst)+8)
			}
		case errors.Is(err, transform.ErrShortSrc):
			if p.final {
				return ErrPartialChar
			}
			return nil
		case errors.Is(err, encoding.ErrTruncated):
			return ErrPartialChar
		default:
			return ErrInvalidToken
		}
	}
	return nil
}

// run tokenizes until the input runs out or a callback stops the
// parser. Each iteration handles exactly one token.
func (p *Parser) run() (Status, error) {
	for p.state == StateRunning {
		in := p.inputs[len(p.inputs)-1]
		if in.pos >= len(in.buf) {
			if in.entity != nil {
				if err := p.popInput(); err != nil {
					return p.fail(err)
				}
				continue
			}
			if !p.final || len(p.raw) > 0 {
				if p.final {
					return p.fail(ErrPartialChar)
				}
				p.compact()
				return StatusOK, nil
			}
			if err := p.endOfInput(); err != nil {
				return p.fail(err)
			}
			p.state = StateFinished
			p.code = ErrNone
			p.traceLog().Debug("parse finished")
			return StatusOK, nil
		}

		if p.atStart && bytes.HasPrefix(in.buf[in.pos:], decodedBOM) {
			in.pos += len(decodedBOM)
			continue
		}

		p.cur = nil
		p.defaulted = false
		p.evLine, p.evCol = p.line, p.col
		if debug.Enabled {
			debug.Printf("step %s at %d:%d (depth %d)", p.instate, p.evLine, p.evCol, len(p.inputs))
		}
		err := p.step(in)
		if err == errNeedMore {
			p.compact()
			return StatusOK, nil
		}
		if err != nil {
			return p.fail(err)
		}
		p.atStart = false
	}
	return p.outcome()
}

// outcome reports a parser that left the running state in the middle
// of a call to Feed or Resume.
func (p *Parser) outcome() (Status, error) {
	switch p.state {
	case StateRunning:
		return StatusOK, nil
	case StateSuspended:
		return StatusSuspended, nil
	}
	if p.err == nil {
		p.err = &ParseError{Code: ErrAborted, Line: p.evLine, Column: p.evCol}
	}
	p.code = ErrAborted
	return StatusError, p.err
}

func (p *Parser) fail(err error) (Status, error) {
	pe, ok := err.(*ParseError)
	if !ok {
		pe = &ParseError{Code: codeOf(err), Line: p.evLine, Column: p.evCol}
		if _, isCode := err.(ErrorCode); !isCode {
			pe.Err = err
		}
	}
	p.state = StateFinished
	p.code = pe.Code
	p.err = pe
	p.traceError(pe)
	if debug.Enabled {
		debug.Dump(p.instate, p.tags)
	}
	return StatusError, pe
}

func (p *Parser) compact() {
	doc := p.inputs[0]
	if doc.pos > 4096 && doc.pos > len(doc.buf)/2 {
		n := copy(doc.buf, doc.buf[doc.pos:])
		doc.buf = doc.buf[:n]
		doc.pos = 0
	}
}

func (p *Parser) errorAt(code ErrorCode, cause error) *ParseError {
	return &ParseError{Code: code, Line: p.evLine, Column: p.evCol, Err: cause}
}
