// Package health probes the three upstream API families and reduces the
// outcomes to a single gateway status.
//
// Each family has one cheap probe call (a vehicle listing or a ping). The
// probes run concurrently with independent failure capture; one family
// failing never blocks or cancels the others. Outcomes are classified on a
// total order:
//
//	UNKNOWN < HEALTHY < DEGRADED < UNHEALTHY
//
// and the aggregate is the maximum over the configured families. Families
// without a credential report UNKNOWN and are excluded from the aggregate,
// so an operator running only one API still sees a meaningful status.
package health
