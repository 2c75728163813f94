// Package gitcontent reconciles GitContent resources against GitHub
// repositories.
//
// A GitContent resource declares a repository (owner and name) and a list of
// files. Reconciler clones the repository, brings the integration branch up to
// date with the default branch, writes the declared files according to their
// merge policy, and when anything changed pushes the branch and makes sure a
// pull request is open. The outcome is reported as a Ready condition on the
// resource.
//
// The readOnly flag on a file is named the opposite way round from what it
// does:
//
//	readOnly: true   the operator owns the file and overwrites any drift
//	readOnly: false  the file is seeded once and then belongs to the user
//
// Files are applied in declaration order, so when a path is listed twice the
// later entry sees the result of the earlier one.
package gitcontent
