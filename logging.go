package fins

import "go.uber.org/zap"

// logEvent writes one broadcast event to the engine's zap logger at a
// level matching its severity, following the structured
// logging interceptor. The default logger is zap.NewNop(), so this is
// silent unless a caller supplies WithLogger.
func logEvent(log *zap.Logger, evt Event) {
	fields := []zap.Field{zap.String("kind", string(evt.Kind))}
	if evt.Seq != nil {
		fields = append(fields, zap.Uint8("sid", evt.Seq.Sid))
	}

	switch evt.Kind {
	case EventError:
		log.Warn("fins event", append(fields, zap.Error(evt.Err))...)
	case EventTimeout:
		log.Warn("fins event", fields...)
	case EventFull:
		log.Warn("fins event", fields...)
	case EventClose:
		log.Info("fins event", fields...)
	case EventOpen, EventInitialised:
		log.Info("fins event", fields...)
	default:
		log.Debug("fins event", fields...)
	}
}
