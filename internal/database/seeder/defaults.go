package seeder

// Defaults lists the development seeders in dependency order: jobs need
// the user, applications need the jobs.
func Defaults() []Seeder {
	return []Seeder{
		DemoUserSeeder{},
		DemoJobsSeeder{},
		DemoApplicationsSeeder{},
	}
}
