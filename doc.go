// Package verdict provides a small algebra of boolean rules over the attributes of a
// typed subject, and several interpreters for those rules.
//
// A rule is inert data: an immutable tree built from attribute tests (Eq, Gt, Lt)
// and combinators (And, Or, Not, Any, All, Contains). The same tree can be
//
//  1. evaluated against a subject (Evaluate)
//  2. explained against a subject, giving what was expected and what was found (Explain, Report)
//  3. documented without a subject (Document, Tree)
//  4. drawn as a graph (ToGraph, ToDot, ToMermaid)
//  5. serialized to JSON or YAML and decoded again with a Registry (EncodeJSON, DecodeJSON)
//
// Typical use is as follows:
//
//	type Account struct {
//		Region, Country string
//	}
//
//	var (
//		region  = verdict.NewAttribute("region", func(a Account) string { return a.Region })
//		country = verdict.NewAttribute("country", func(a Account) string { return a.Country })
//	)
//
//	rule := verdict.And(
//		verdict.Eq(region, "EMEA"),
//		verdict.Not(verdict.Contains(country, "US", "BE", "FR")))
//
//	ok := verdict.Evaluate(rule, Account{Region: "EMEA", Country: "DE"}) // true
//
// # Type Safety
//
// An Attribute[S, A] pairs a name with a function from the subject S to a value of
// type A. Attribute tests take an attribute and a value of the same A, so comparing
// an attribute with a value of another type does not compile.
//
// # Closed Set of Nodes
//
// The node kinds are EQ, GT, LT, AND, OR and NOT, and nothing else. Every
// interpreter implements Visitor, which has one method per kind; an interpreter that
// leaves one out does not compile. Combinators such as Any and Contains are built
// from the primitive kinds and never add new ones.
//
// # Concurrency
//
// Rules, attributes, registries and results are immutable once built. All
// interpreters are pure functions; they may be called from any number of goroutines
// on the same rule without synchronization.
//
// # Record Subjects
//
// When the attributes are not known at compile time, for example when rules and data
// are supplied by users, describe the data with a Schema and evaluate rules against
// Record values (map[string]any).
//
// # Rule Sets
//
// A Vault holds named rules that can be added, updated and deleted while other
// goroutines evaluate them. Each Mutate call is applied as a unit.
package verdict
