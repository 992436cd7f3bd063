package conflicts

// DefaultRules is the built-in conflict table for the standard content bank.
// Each pair names a highlight and a position-scoped atom that cite the same
// underlying fact or metric; using one anywhere forbids the other.
//
//nolint:gochecknoglobals // Conflict table configuration constants
var DefaultRules = []Rule{
	{
		IDA:    "CH-01",
		IDB:    "P1-B02",
		Reason: "Both cite the 40% latency reduction on the payments platform",
	},
	{
		IDA:    "CH-02",
		IDB:    "P1-OV",
		Reason: "Both describe leading the platform team through the cloud migration",
	},
	{
		IDA:    "CH-03",
		IDB:    "P2-B01",
		Reason: "Both cite the $2M annual infrastructure cost savings",
	},
	{
		IDA:    "CH-04",
		IDB:    "P2-B03",
		Reason: "Both describe the zero-downtime database migration",
	},
	{
		IDA:    "CH-06-V2",
		IDB:    "P3-B01",
		Reason: "This wording of CH-06 cites the same SOC 2 audit result as P3-B01",
	},
	{
		IDA:    "SUM-02",
		IDB:    "P1-B04",
		Reason: "Both lead with the 10x traffic growth number",
	},
}
