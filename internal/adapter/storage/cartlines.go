package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/printmade/storefront/internal/core/domain"
	"github.com/printmade/storefront/internal/core/port"
)

var _ port.CartStore = (*CartLinesRepository)(nil)

const uniqueViolationCode = "23505"

// customizationRow is the JSON shape of a cart line's customization
// column. Reads always rebuild a fresh domain value, so identity
// comparison stays structural.
type customizationRow struct {
	Name     string     `json:"name,omitempty"`
	ImageRef string     `json:"image_ref,omitempty"`
	Design   *designRow `json:"design,omitempty"`
}

type designRow struct {
	DesignID string            `json:"design_id"`
	Name     string            `json:"name"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

type CartLinesRepository struct {
	sqldb sqldb
}

func NewCartLinesRepository(sqldb sqldb) CartLinesRepository {
	return CartLinesRepository{sqldb}
}

func (r CartLinesRepository) ListCartLines(
	ctx context.Context, userID, productID string,
) ([]domain.CartLine, error) {
	const op = "CartLinesRepository.ListCartLines"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT line_id, user_id, product_id, variant_id,
		       quantity, customization, created_at
		FROM cart_lines
		WHERE user_id = $1 AND ($2 = '' OR product_id = $2)
		ORDER BY created_at;`

	rows, err := r.sqldb.QueryContext(ctx, query, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lines, nil
}

func (r CartLinesRepository) InsertCartLine(
	ctx context.Context, line domain.CartLine,
) (domain.CartLine, error) {
	const op = "CartLinesRepository.InsertCartLine"

	if err := ctx.Err(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	customizationB, err := marshalCustomization(line.Customization)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO cart_lines (
			line_id, user_id, product_id, variant_id,
			quantity, customization, customization_key, created_at
		)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
		RETURNING line_id, user_id, product_id, variant_id,
		          quantity, customization, created_at;`

	row := r.sqldb.QueryRowContext(ctx, query,
		line.LineID, line.UserID, line.ProductID, line.VariantID,
		line.Quantity, customizationB, string(line.Customization.Key()),
		line.CreatedAt,
	)

	inserted, err := scanCartLine(row)
	if err != nil {
		if isUniqueViolation(err) {
			// a concurrent add for the same identity won the insert
			return domain.CartLine{}, fmt.Errorf(
				"%s: %w", op, domain.ErrMergeConflict,
			)
		}
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	return inserted, nil
}

func (r CartLinesRepository) UpdateCartLineQuantity(
	ctx context.Context, lineID string, quantity int,
) (domain.CartLine, error) {
	const op = "CartLinesRepository.UpdateCartLineQuantity"

	if err := ctx.Err(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE cart_lines
		SET quantity = $2
		WHERE line_id = $1
		RETURNING line_id, user_id, product_id, variant_id,
		          quantity, customization, created_at;`

	line, err := scanCartLine(r.sqldb.QueryRowContext(ctx, query, lineID, quantity))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartLine{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	return line, nil
}

func (r CartLinesRepository) DeleteCartLine(
	ctx context.Context, lineID string,
) (domain.CartLine, error) {
	const op = "CartLinesRepository.DeleteCartLine"

	if err := ctx.Err(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		DELETE FROM cart_lines
		WHERE line_id = $1
		RETURNING line_id, user_id, product_id, variant_id,
		          quantity, customization, created_at;`

	line, err := scanCartLine(r.sqldb.QueryRowContext(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CartLine{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}
	return line, nil
}

func (r CartLinesRepository) DeleteCartLines(
	ctx context.Context, userID string,
) error {
	const op = "CartLinesRepository.DeleteCartLines"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := r.sqldb.ExecContext(ctx,
		`DELETE FROM cart_lines WHERE user_id = $1;`, userID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCartLine(row rowScanner) (domain.CartLine, error) {
	var (
		l              domain.CartLine
		variantID      sql.NullString
		customizationB []byte
	)

	err := row.Scan(
		&l.LineID, &l.UserID, &l.ProductID, &variantID,
		&l.Quantity, &customizationB, &l.CreatedAt,
	)
	if err != nil {
		return domain.CartLine{}, err
	}

	l.VariantID = variantID.String

	c, err := unmarshalCustomization(customizationB)
	if err != nil {
		return domain.CartLine{}, err
	}
	l.Customization = c
	return l, nil
}

func marshalCustomization(c *domain.Customization) ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	row := customizationRow{
		Name:     c.Name,
		ImageRef: c.ImageRef,
	}
	if c.Design != nil {
		row.Design = &designRow{
			DesignID: c.Design.DesignID,
			Name:     c.Design.Name,
			Attrs:    c.Design.Attrs,
		}
	}
	return json.Marshal(row)
}

func unmarshalCustomization(b []byte) (*domain.Customization, error) {
	if len(b) == 0 {
		return nil, nil
	}

	var row customizationRow
	if err := json.Unmarshal(b, &row); err != nil {
		return nil, err
	}

	c := &domain.Customization{
		Name:     row.Name,
		ImageRef: row.ImageRef,
	}
	if row.Design != nil {
		c.Design = &domain.Design{
			DesignID: row.Design.DesignID,
			Name:     row.Design.Name,
			Attrs:    row.Design.Attrs,
		}
	}
	return c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
