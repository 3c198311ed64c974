package verdict_test

import (
	"time"

	"github.com/ezachrisen/verdict"
)

// --------------------------------------------------
// Subjects, attributes and rules shared by the tests

type account struct {
	Region    string
	Country   string
	Segment   string
	Employees int
	Revenue   float64
	Active    bool
	Opened    time.Time
}

var (
	region    = verdict.NewAttribute("region", func(a account) string { return a.Region })
	country   = verdict.NewAttribute("country", func(a account) string { return a.Country })
	segment   = verdict.NewAttribute("segment", func(a account) string { return a.Segment })
	employees = verdict.NewAttribute("employees", func(a account) int { return a.Employees })
	revenue   = verdict.NewAttribute("revenue", func(a account) float64 { return a.Revenue })
	active    = verdict.NewAttribute("active", func(a account) bool { return a.Active })
	opened    = verdict.NewAttribute("opened", func(a account) time.Time { return a.Opened })
)

var accountRegistry = verdict.MustRegistry(
	verdict.BindOrdered(region),
	verdict.BindOrdered(country),
	verdict.BindOrdered(segment),
	verdict.BindOrdered(employees),
	verdict.BindOrdered(revenue),
	verdict.BindComparable(active),
	verdict.BindFunc(opened, time.Time.Compare),
)

var epoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// accounts is a representative set of subjects covering both outcomes of every
// attribute test used in testRules.
func accounts() []account {
	return []account{
		{Region: "EMEA", Country: "FR", Segment: "Public", Employees: 12, Revenue: 1200.5, Active: true, Opened: epoch.AddDate(1, 0, 0)},
		{Region: "EMEA", Country: "DE", Segment: "Private", Employees: 500, Revenue: 99.9, Active: false, Opened: epoch.AddDate(-1, 0, 0)},
		{Region: "LATAM", Country: "BR", Segment: "Public", Employees: 0, Revenue: 0, Active: true, Opened: epoch},
		{Region: "LATAM", Country: "AR", Segment: "Private", Employees: 50, Revenue: 50000, Active: false, Opened: epoch.AddDate(3, 2, 1)},
		{Region: "NA", Country: "US", Segment: "Public", Employees: 10000, Revenue: 1e7, Active: true, Opened: epoch.AddDate(0, 0, -1)},
		{Region: "APAC", Country: "BE", Segment: "", Employees: -1, Revenue: -3.5, Active: false},
		{},
	}
}

// leaves returns attribute tests over every attribute and node kind.
func leaves() map[string]verdict.Expr[account] {
	return map[string]verdict.Expr[account]{
		"region_emea":    verdict.Eq(region, "EMEA"),
		"country_fr":     verdict.Eq(country, "FR"),
		"segment_public": verdict.Eq(segment, "Public"),
		"employees_gt":   verdict.Gt(employees, 10),
		"employees_lt":   verdict.Lt(employees, 100),
		"revenue_gt":     verdict.Gt(revenue, 1000.0),
		"active":         verdict.Eq(active, true),
		"opened_after":   verdict.GtFunc(opened, epoch, time.Time.Compare),
		"opened_before":  verdict.LtFunc(opened, epoch.AddDate(2, 0, 0), time.Time.Compare),
	}
}

// testRules returns leaves plus composite rules exercising every combinator.
func testRules() map[string]verdict.Expr[account] {
	l := leaves()
	rules := map[string]verdict.Expr[account]{
		"scenario_a": verdict.And(
			verdict.Eq(region, "EMEA"),
			verdict.Not(verdict.Contains(country, "US", "BE", "FR"))),
		"scenario_b": verdict.Contains(country, "US", "FR", "BE"),
		"scenario_c": verdict.Or(
			verdict.Eq(segment, "Public"),
			verdict.Not(verdict.Eq(region, "LATAM"))),
		"all": verdict.All(l["employees_gt"], l["employees_lt"], l["active"]),
		"any": verdict.Any(l["revenue_gt"], l["opened_after"], verdict.Not(l["segment_public"])),
		"nested": verdict.Or(
			verdict.And(l["region_emea"], verdict.Not(l["country_fr"])),
			verdict.And(verdict.Not(verdict.Not(l["active"])), l["opened_before"])),
		"shared": verdict.And(l["country_fr"], verdict.Or(l["country_fr"], l["employees_gt"])),
	}
	for k, v := range l {
		rules[k] = v
	}
	return rules
}
