// Package helper provides fixtures and observability spies for testing the SQLite catalog engine.
//
// GivenFixtureCatalog writes a small catalog of authors, series, books and genres into a fresh
// SQLite file per test. The spies capture what a Catalog logs, measures and traces.
package helper
