package fins

import "go.uber.org/zap"

// config holds the resolved constructor options.
type config struct {
	protocol  transportKind
	timeoutMs int
	maxQueue  int
	family    Family

	localHost string
	localPort int

	header FinsHeader

	log *zap.Logger
}

// Option configures an Engine at construction time.
type Option func(*config)

func defaultConfig() config {
	return config{
		protocol:  transportUDP,
		timeoutMs: 2000,
		maxQueue:  100,
		family:    FamilyCS,
		header:    defaultHeaderTemplate(),
		log:       zap.NewNop(),
	}
}

// WithProtocol selects "udp" (default) or "tcp".
func WithProtocol(protocol string) Option {
	return func(c *config) {
		if protocol == "tcp" {
			c.protocol = transportTCP
		} else {
			c.protocol = transportUDP
		}
	}
}

// WithTimeout sets the default per-request timeout in milliseconds
// (fallback 2000 if never set or set to a non-positive value).
func WithTimeout(ms int) Option {
	return func(c *config) {
		if ms > 0 {
			c.timeoutMs = ms
		}
	}
}

// WithMaxQueue sets the maximum number of concurrent in-flight requests
// (fallback 100 if never set or set to a non-positive value).
func WithMaxQueue(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxQueue = n
		}
	}
}

// WithMode selects the PLC family used by the Address Codec.
func WithMode(mode Family) Option {
	return func(c *config) { c.family = mode }
}

// WithLocalAddress binds the engine to a specific local host/port
// instead of an OS-assigned ephemeral one.
func WithLocalAddress(host string, port int) Option {
	return func(c *config) { c.localHost, c.localPort = host, port }
}

// WithHeaderFields overrides the initial FinsHeader fields
// (ICF, DNA, DA1, DA2, SNA, SA1, SA2); zero-value arguments leave the
// corresponding default untouched.
func WithHeaderFields(icf, dna, da1, da2, sna, sa1, sa2 *byte) Option {
	return func(c *config) {
		if icf != nil {
			c.header.ICF = *icf
		}
		if dna != nil {
			c.header.DNA = *dna
		}
		if da1 != nil {
			c.header.DA1 = *da1
		}
		if da2 != nil {
			c.header.DA2 = *da2
		}
		if sna != nil {
			c.header.SNA = *sna
		}
		if sa1 != nil {
			c.header.SA1 = *sa1
		}
		if sa2 != nil {
			c.header.SA2 = *sa2
		}
	}
}

// WithLogger installs a zap logger for structured lifecycle logging.
// The default is zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

// ModeFromString resolves a MODE option string to a Family, matching
// the recognized MODE strings; unknown values fall back to FamilyCS.
func ModeFromString(s string) Family {
	switch s {
	case "CSCJ":
		return FamilyCSCJ
	case "CJ":
		return FamilyCJ
	case "CV":
		return FamilyCV
	case "NJ":
		return FamilyNJ
	case "NJNX":
		return FamilyNJNX
	case "NX":
		return FamilyNX
	default:
		return FamilyCS
	}
}
