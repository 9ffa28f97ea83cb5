package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

// All returns the oracles that must hold at any instant.
func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_unique_pair",
			SQL: `SELECT professional_id, vacancy_id, COUNT(*) FROM applications
                  GROUP BY professional_id, vacancy_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O2_no_orphan_application",
			SQL: `SELECT a.id, a.vacancy_id FROM applications a
                  LEFT JOIN vacancies v ON v.id = a.vacancy_id
                  WHERE v.id IS NULL`,
		},
		{
			Name: "O3_submission_recipient_is_institution",
			SQL: `SELECT n.id, n.recipient_user_id FROM notifications n
                  JOIN users u ON u.id = n.recipient_user_id
                  WHERE n.message LIKE 'New application received for %'
                    AND u.role <> 'institution'`,
		},
		{
			Name: "O4_known_status",
			SQL: `SELECT id, status FROM applications
                  WHERE status NOT IN ('Submitted','UnderReview','Interviewed','Accepted','Rejected')`,
		},
	}
}

// Delivery returns the oracles that only hold when no notification append
// was lost, i.e. without backend termination.
func Delivery() []Oracle {
	return []Oracle{
		{
			Name: "O5_submission_notified",
			SQL: `SELECT a.id, a.vacancy_id FROM applications a
                  JOIN vacancies v ON v.id = a.vacancy_id
                  WHERE NOT EXISTS (
                      SELECT 1 FROM notifications n
                      WHERE n.recipient_user_id = v.owner_user_id
                        AND n.message = 'New application received for "' || v.title || '"')`,
		},
	}
}

// Run executes the oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool, set []Oracle) (string, string, error) {
	for _, o := range set {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		rows.Close()
	}
	return "", "", nil
}
