package xmlpush

import (
	"log/slog"
)

// the null logger is a logger that does nothing
var nullLogger = slog.New(slog.DiscardHandler)

func (p *Parser) traceLog() *slog.Logger {
	if p.tlog == nil {
		return nullLogger
	}
	return p.tlog
}

func (p *Parser) traceState(op string, from State, err error) {
	tlog := p.traceLog()
	if err != nil {
		tlog.Debug("control call rejected",
			slog.String("op", op),
			slog.String("state", from.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	tlog.Debug("state transition",
		slog.String("op", op),
		slog.String("from", from.String()),
		slog.String("to", p.state.String()),
	)
}

func (p *Parser) traceEntity(msg string, req EntityRequest, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+3)
	args = append(args,
		slog.String("system_id", req.SystemID),
		slog.String("public_id", req.PublicID),
		slog.Bool("parameter", req.Context == nil),
	)
	for _, a := range attrs {
		args = append(args, a)
	}
	p.traceLog().Debug(msg, args...)
}

func (p *Parser) traceError(err error) {
	p.traceLog().Error("parse failed",
		slog.String("error", err.Error()),
		slog.Int("line", p.evLine),
		slog.Int("column", p.evCol),
	)
}
