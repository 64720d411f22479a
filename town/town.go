package town

import "gorm.io/gorm"

// Town bundles the stores behind the town simulation. All state lives in
// the injected gorm handle; the stores are stateless wrappers around it.
type Town struct {
	Structures *Structures
	Milestones *Milestones
	Votes      *Votes
	Upgrades   *Upgrades
	History    *History
}

func New(db *gorm.DB) *Town {
	structures := &Structures{db: db}
	milestones := &Milestones{db: db}
	history := &History{db: db}
	votes := &Votes{db: db, structures: structures}

	return &Town{
		Structures: structures,
		Milestones: milestones,
		Votes:      votes,
		History:    history,
		Upgrades: &Upgrades{
			db:         db,
			structures: structures,
			milestones: milestones,
			votes:      votes,
			history:    history,
		},
	}
}
