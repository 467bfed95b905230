package store

import (
	"context"
	"database/sql"
)

const createField = `
INSERT INTO fields (owner_id, name, address, latitude, longitude, field_type, field_info, services)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, owner_id, name, address, latitude, longitude, field_type, field_info, services, created_at, updated_at
`

type CreateFieldParams struct {
	OwnerID   int64
	Name      string
	Address   string
	Latitude  sql.NullFloat64
	Longitude sql.NullFloat64
	FieldType string
	FieldInfo string
	Services  string
}

func (q *Queries) CreateField(ctx context.Context, arg CreateFieldParams) (Field, error) {
	row := q.db.QueryRowContext(ctx, createField,
		arg.OwnerID,
		arg.Name,
		arg.Address,
		arg.Latitude,
		arg.Longitude,
		arg.FieldType,
		arg.FieldInfo,
		arg.Services,
	)
	return scanField(row)
}

const getField = `
SELECT id, owner_id, name, address, latitude, longitude, field_type, field_info, services, created_at, updated_at
FROM fields WHERE id = ?
`

func (q *Queries) GetField(ctx context.Context, id int64) (Field, error) {
	return scanField(q.db.QueryRowContext(ctx, getField, id))
}

const listFields = `
SELECT id, owner_id, name, address, latitude, longitude, field_type, field_info, services, created_at, updated_at
FROM fields ORDER BY name, id
`

func (q *Queries) ListFields(ctx context.Context) ([]Field, error) {
	rows, err := q.db.QueryContext(ctx, listFields)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []Field
	for rows.Next() {
		var f Field
		if err := rows.Scan(
			&f.ID, &f.OwnerID, &f.Name, &f.Address, &f.Latitude, &f.Longitude,
			&f.FieldType, &f.FieldInfo, &f.Services, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func scanField(row *sql.Row) (Field, error) {
	var f Field
	err := row.Scan(
		&f.ID, &f.OwnerID, &f.Name, &f.Address, &f.Latitude, &f.Longitude,
		&f.FieldType, &f.FieldInfo, &f.Services, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}
