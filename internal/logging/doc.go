// Package logging provides file-based structured logging with rotation for catcrawler.
// Logs are JSON lines written to <data_dir>/logs/catcrawler.log. The --debug flag
// lowers the level to debug and mirrors every record to stderr.
package logging
