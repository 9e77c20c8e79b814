// Package backup snapshots the stores before an operation rewrites them.
//
// A snapshot is a directory named backup-YYYYMMDD-HHMMSS holding copies of the store files
// that exist at that moment. When object storage is configured the snapshot is also
// uploaded under <prefix>/<snapshot>/ and older mirrored snapshots can be pruned.
package backup
