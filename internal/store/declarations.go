package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, hash, is_declaration_file, line_count, last_indexed) VALUES (?, ?, ?, ?, ?)",
		f.Path, f.Hash, f.IsDeclarationFile, f.LineCount, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

const fileCols = "id, path, hash, is_declaration_file, line_count, last_indexed"

func scanFile(scanner interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	err := scanner.Scan(&f.ID, &f.Path, &f.Hash, &f.IsDeclarationFile, &f.LineCount, &f.LastIndexed)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// FileByPath returns the file at path, or nil when it has not been indexed.
func (s *Store) FileByPath(path string) (*File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+fileCols+" FROM files WHERE path = ?", path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: file by path: %w", err)
	}
	return f, nil
}

// Files returns every indexed file ordered by path.
func (s *Store) Files() ([]*File, error) {
	rows, err := s.db.Query("SELECT " + fileCols + " FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("store: files: %w", err)
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// --- Declaration operations ---

func (s *Store) InsertDeclaration(d *Declaration) (int64, error) {
	res, err := s.db.Exec(insertDeclarationSQL, declarationArgs(d)...)
	if err != nil {
		return 0, fmt.Errorf("store: insert declaration: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: last insert id: %w", err)
	}
	d.ID = id
	return id, nil
}

const insertDeclarationSQL = `INSERT INTO declarations (file_id, name, kind, modifiers, flags,
	is_ambient, is_exported, fqn, declared_type, signature_hash,
	start_line, start_col, end_line, end_col, parent_declaration_id)
 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func declarationArgs(d *Declaration) []any {
	return []any{
		d.FileID, d.Name, d.Kind, marshalModifiers(d.Modifiers), d.Flags,
		d.IsAmbient, d.IsExported, d.FQN, d.DeclaredType, d.SignatureHash,
		d.StartLine, d.StartCol, d.EndLine, d.EndCol, d.ParentDeclarationID,
	}
}

// DeclarationCols is the column list for declaration queries.
const DeclarationCols = `id, file_id, name, kind, modifiers, flags, is_ambient, is_exported,
	fqn, declared_type, signature_hash, start_line, start_col, end_line, end_col,
	parent_declaration_id`

// ScanDeclarationRow scans a single row selected with DeclarationCols.
func ScanDeclarationRow(scanner interface{ Scan(...any) error }) (*Declaration, error) {
	d := &Declaration{}
	var mods string
	err := scanner.Scan(
		&d.ID, &d.FileID, &d.Name, &d.Kind, &mods, &d.Flags, &d.IsAmbient, &d.IsExported,
		&d.FQN, &d.DeclaredType, &d.SignatureHash, &d.StartLine, &d.StartCol, &d.EndLine, &d.EndCol,
		&d.ParentDeclarationID,
	)
	if err != nil {
		return nil, err
	}
	d.Modifiers = unmarshalModifiers(mods)
	return d, nil
}

func (s *Store) queryDeclarations(query string, args ...any) ([]*Declaration, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var decls []*Declaration
	for rows.Next() {
		d, err := ScanDeclarationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan declaration: %w", err)
		}
		decls = append(decls, d)
	}
	return decls, rows.Err()
}

func (s *Store) DeclarationsByFile(fileID int64) ([]*Declaration, error) {
	return s.queryDeclarations("SELECT "+DeclarationCols+" FROM declarations WHERE file_id = ? ORDER BY id", fileID)
}

func (s *Store) DeclarationsByName(name string) ([]*Declaration, error) {
	return s.queryDeclarations("SELECT "+DeclarationCols+" FROM declarations WHERE name = ? ORDER BY id", name)
}

func (s *Store) DeclarationsByKind(kind string) ([]*Declaration, error) {
	return s.queryDeclarations("SELECT "+DeclarationCols+" FROM declarations WHERE kind = ? ORDER BY id", kind)
}

// AmbientDeclarations returns every declaration recorded as ambient.
func (s *Store) AmbientDeclarations() ([]*Declaration, error) {
	return s.queryDeclarations("SELECT " + DeclarationCols + " FROM declarations WHERE is_ambient ORDER BY id")
}

func (s *Store) DeclarationChildren(parentID int64) ([]*Declaration, error) {
	return s.queryDeclarations("SELECT "+DeclarationCols+" FROM declarations WHERE parent_declaration_id = ? ORDER BY id", parentID)
}

// --- Metadata ---

// GetMetadata returns the value stored under key, or "" when unset.
func (s *Store) GetMetadata(key string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: get metadata %q: %w", key, err)
	}
	return v, nil
}

// SetMetadata stores value under key, replacing any previous value.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("store: set metadata %q: %w", key, err)
	}
	return nil
}
