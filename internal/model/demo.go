package model

// DemoRoster returns the sample teams and players used to try the auction
// without entering data. Every call returns fresh slices.
func DemoRoster() Roster {
	settings := DefaultSettings()
	teams := []Team{
		{ID: "t_demo_1", Name: "Cyber Titans", CaptainName: "Alex M", LogoColor: "cyan"},
		{ID: "t_demo_2", Name: "Neon Warriors", CaptainName: "Sarah K", LogoColor: "purple"},
		{ID: "t_demo_3", Name: "Stealth Strikers", CaptainName: "Mike R", LogoColor: "green"},
	}
	for i := range teams {
		teams[i].PurseRemaining = settings.TotalPurse
		teams[i].PlayersBought = []string{}
	}

	return Roster{
		Teams: teams,
		Players: []Player{
			{ID: "p_d1", Name: "John Doe", MobileNumber: "9998887771", Category: RoleAllRounder, Experience: ExperienceAdvance, BasePrice: 50_000},
			{ID: "p_d2", Name: "Jane Smith", MobileNumber: "9998887772", Category: RoleBowler, Experience: ExperienceIntermediate, BasePrice: 30_000},
			{ID: "p_d3", Name: "Robert P", MobileNumber: "9998887773", Category: RoleRightHandedBatsman, Experience: ExperienceAdvance, BasePrice: 40_000},
			{ID: "p_d4", Name: "Chris Evans", MobileNumber: "9998887774", Category: RoleWicketKeeper, Experience: ExperienceBeginner, BasePrice: 20_000},
			{ID: "p_d5", Name: "Tom H", MobileNumber: "9998887775", Category: RoleLeftHandedBatsman, Experience: ExperienceIntermediate, BasePrice: 30_000},
			{ID: "p_d6", Name: "Scarlett J", MobileNumber: "9998887776", Category: RoleAllRounder, Experience: ExperienceAdvance, BasePrice: 50_000},
		},
		Settings: settings,
	}
}
