// Package capability issues and checks the possession-based tokens that gate
// direct audio downloads.
//
// A capability token names exactly one file and carries no subject: whoever
// holds the URL may fetch that file until the token expires. Tokens live in
// the "download" audience so they can never stand in for session tokens.
package capability
