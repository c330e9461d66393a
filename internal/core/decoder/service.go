package decoder

import "firestige.xyz/snooper/internal/core"

const wellKnownPortMax = 1024

// wellKnownServices maps well-known ports to upper-layer service names.
var wellKnownServices = map[uint16]core.Service{
	20:  "FTP",
	22:  "SSH",
	23:  "SMTP",
	53:  "DNS",
	80:  "HTTP",
	110: "POP3",
	115: "SFTP",
	161: "SNMP",
	179: "BGP",
	443: "HTTPS",
}

// ResolveService resolves the upper-layer service from a well-known port
// (below 1024). The source port takes precedence whenever it is below 1024,
// even if the destination port is lower: asymmetric directions of one
// conversation therefore resolve independently.
func ResolveService(srcPort, dstPort uint16) core.Service {
	var port uint16
	switch {
	case srcPort < wellKnownPortMax:
		port = srcPort
	case dstPort < wellKnownPortMax:
		port = dstPort
	default:
		return core.ServiceUnknown
	}

	if svc, ok := wellKnownServices[port]; ok {
		return svc
	}
	return core.ServiceUnknown
}
