package sqlitefts

// schema creates the document table and its external-content FTS5 index.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
    pk      INTEGER PRIMARY KEY AUTOINCREMENT,
    id      TEXT UNIQUE NOT NULL,
    title   TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    path    TEXT NOT NULL DEFAULT '',
    tags    TEXT NOT NULL DEFAULT ''
);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    title, content, tags, content='documents', content_rowid='pk'
);
`

const searchQuery = `
SELECT documents.id, documents.title, documents.content, documents.path, bm25(documents_fts) AS score
FROM documents_fts
JOIN documents ON documents.pk = documents_fts.rowid
WHERE documents_fts MATCH ?
ORDER BY bm25(documents_fts)
LIMIT ?
`

const upsertDocument = `
INSERT INTO documents (id, title, content, path, tags) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title, content = excluded.content,
    path = excluded.path, tags = excluded.tags
`

const rebuildIndex = `INSERT INTO documents_fts(documents_fts) VALUES('rebuild')`
