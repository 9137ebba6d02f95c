package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- every invoice belongs to a registered user
				ALTER TABLE invoices
				ADD CONSTRAINT fk_invoices_user_id
				FOREIGN KEY (user_id) REFERENCES users (id);

			-- a zap shares its identity with the invoice it annotates
				ALTER TABLE zaps
				ADD CONSTRAINT fk_zaps_invoice_id
				FOREIGN KEY (id) REFERENCES invoices (id);

			-- issued invoices are committed to a positive amount
				ALTER TABLE invoices
				ADD CONSTRAINT check_positive_amount
				CHECK (amount > 0);

			-- payment hashes identify an invoice for verification lookups
				CREATE UNIQUE INDEX invoices_r_hash_idx ON invoices (r_hash);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, nil)
}
