// Package validate runs the workspace checks (three-way key consistency, canonical labels,
// dangling main identifiers) and the fix that renames drifted keys in all stores at once.
package validate
