package log

// Combine returns a Logger that sends every event to each non-nil logger.
// It returns nil when no logger is given, so the result can be assigned to
// an optional Logger field as is, and the logger itself when only one is.
func Combine(loggers ...Logger) Logger {
	var live multiLogger
	for _, l := range loggers {
		if l != nil {
			live = append(live, l)
		}
	}

	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	default:
		return live
	}
}

// multiLogger fans events out in order.
type multiLogger []Logger

func (m multiLogger) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}
