package telemetry

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink is the process-wide diagnostic sink. One sink is constructed per
// runtime zone (server, worker) at startup. Capturing never alters the
// response the caller produces.
type Sink interface {
	CaptureException(err error, tags map[string]string)
	CaptureMessage(msg string, tags map[string]string)
}

// ZapSink reports captured events through a structured logger.
type ZapSink struct {
	log  *zap.Logger
	zone string
}

func NewZapSink(log *zap.Logger, zone string) *ZapSink {
	return &ZapSink{log: log, zone: zone}
}

func (s *ZapSink) CaptureException(err error, tags map[string]string) {
	s.log.Error("captured exception", s.fields(tags, zap.Error(err))...)
}

func (s *ZapSink) CaptureMessage(msg string, tags map[string]string) {
	s.log.Info("captured message", s.fields(tags, zap.String("message", msg))...)
}

func (s *ZapSink) fields(tags map[string]string, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", uuid.NewString()),
		zap.String("zone", s.zone),
	}
	fields = append(fields, extra...)
	for k, v := range tags {
		fields = append(fields, zap.String(k, v))
	}
	return fields
}

// NopSink discards everything; used in tests.
type NopSink struct{}

func (NopSink) CaptureException(error, map[string]string) {}
func (NopSink) CaptureMessage(string, map[string]string)  {}

var (
	_ Sink = (*ZapSink)(nil)
	_ Sink = NopSink{}
)
