// Package password hashes and verifies account passwords.
//
// [Bcrypt] is the default and matches hashes already stored by existing
// deployments. [Argon2] produces PHC strings:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Multi] hashes with one algorithm and verifies against any of them by
// looking at the stored prefix, so a deployment can switch algorithms without
// invalidating old hashes.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords.
//   - Log plaintext passwords.
package password
