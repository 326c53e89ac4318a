package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS terms (
    term_id INTEGER PRIMARY KEY AUTOINCREMENT,
    term TEXT NOT NULL UNIQUE,
    document_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_term ON terms(term);

CREATE TABLE IF NOT EXISTS documents (
    document_id INTEGER PRIMARY KEY AUTOINCREMENT,
    document_name TEXT NOT NULL UNIQUE,
    term_count INTEGER NOT NULL DEFAULT 0,
    total_terms INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS postings (
    term_id INTEGER NOT NULL REFERENCES terms(term_id),
    document_id INTEGER NOT NULL REFERENCES documents(document_id),
    frequency INTEGER NOT NULL,
    tf_idf REAL NOT NULL DEFAULT 0.0,
    PRIMARY KEY (term_id, document_id)
);

CREATE INDEX IF NOT EXISTS idx_term_document ON postings(term_id, document_id);

CREATE TABLE IF NOT EXISTS corpus_stats (
    total_documents INTEGER NOT NULL DEFAULT 0
);
`

// seedStats inserts the singleton stats row the first time the schema is
// created. Safe to run on every Ensure: it only fires when the table is
// still empty.
const seedStats = `
INSERT INTO corpus_stats (total_documents)
SELECT 0 WHERE NOT EXISTS (SELECT 1 FROM corpus_stats);
`
