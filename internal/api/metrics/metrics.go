// Package metrics defines and registers all custom Prometheus metrics for the
// Cofre Campneus vault API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package load; the
// router exposes them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vault"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "inactive", "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthzDenialsTotal counts authorization denials.
// Label:
//   - resource: the resource kind the denied operation targeted, or "route"
//     when the denial happened at the route-level RBAC middleware
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of denied operations, by resource kind.",
	},
	[]string{"resource"},
)

// SecretRevealsTotal counts successful secret reveals.
// Label:
//   - role: the revealing principal's role
var SecretRevealsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "secret_reveals_total",
		Help:      "Total number of credential secrets revealed to clients.",
	},
	[]string{"role"},
)

// SecretDecryptFailuresTotal counts stored blobs that failed to decrypt.
// Each increment is a security-relevant anomaly: possible tampering, data
// corruption, or a master key change.
var SecretDecryptFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "secret_decrypt_failures_total",
		Help:      "Total number of stored credential secrets that failed to decrypt.",
	},
)

// CredentialMutationsTotal counts credential writes.
// Label:
//   - action: "create", "update", "delete"
var CredentialMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_mutations_total",
		Help:      "Total number of credential create/update/delete operations.",
	},
	[]string{"action"},
)
