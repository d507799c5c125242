package evaluation

// Case is one branch of a rule. The first case whose When holds decides
// the rule's score.
type Case struct {
	When     string
	Score    int
	Feedback string
}

// Rule scores one aspect of a build
type Rule struct {
	Name  string
	Cases []Case
}

// Profile is a named purpose a build can be judged against
type Profile struct {
	ID          string
	Name        string
	Description string
	Rules       []Rule
}

// Expressions see a single variable, build, holding cpu, gpu, ram and
// storage maps. Absent parts are absent keys, so guard with has().
var gaming = Profile{
	ID:          "gaming",
	Name:        "Gaming",
	Description: "A build meant for running modern games.",
	Rules: []Rule{
		{
			Name: "graphics",
			Cases: []Case{
				{`has(build.gpu) && build.gpu.tier > 3.0`, 15, "A dedicated graphics card suited to gaming is present."},
				{`has(build.gpu)`, -20, "The graphics card is too weak for comfortable play in new titles."},
				{`has(build.cpu) && build.cpu.integrated_gpu`, -100, "Integrated graphics are not suited to modern games."},
				{`true`, -200, "There is no graphics output at all. The build is not ready for gaming."},
			},
		},
		{
			Name: "memory",
			Cases: []Case{
				{`has(build.ram) && build.ram.total_capacity_gb >= 32`, 10, "32 GB of RAM handles the most demanding games and multitasking."},
				{`has(build.ram) && build.ram.total_capacity_gb >= 16`, 8, "16 GB of RAM is the current standard for smooth play."},
				{`has(build.ram)`, -5, "Less than 16 GB of RAM can hurt performance in newer titles."},
			},
		},
		{
			Name: "cores",
			Cases: []Case{
				{`has(build.cpu) && build.cpu.p_cores >= 8`, 10, "Eight or more performance cores leave room for future games."},
				{`has(build.cpu) && build.cpu.p_cores >= 6`, 7, "Six performance cores are a solid base for gaming."},
				{`has(build.cpu)`, -5, "Fewer than six performance cores can limit CPU-bound games."},
			},
		},
		{
			Name: "balance",
			Cases: []Case{
				{`has(build.cpu) && has(build.gpu) && build.cpu.tier - build.gpu.tier > 2.0`, 2, "The processor has headroom over the graphics card, so the GPU will be fully used."},
				{`has(build.cpu) && has(build.gpu) && build.gpu.tier - build.cpu.tier > 2.0`, -8, "The graphics card far outclasses the processor, which may bottleneck it."},
				{`has(build.cpu) && has(build.gpu)`, 5, "Processor and graphics card are well balanced."},
			},
		},
		{
			Name: "storage type",
			Cases: []Case{
				{`has(build.storage) && build.storage.drive_type == "NVMe"`, 5, "An NVMe drive gives the fastest load times."},
				{`has(build.storage) && build.storage.drive_type == "SATA"`, 2, "A SATA SSD is a solid base, but NVMe drives are much faster."},
			},
		},
		{
			Name: "storage capacity",
			Cases: []Case{
				{`has(build.storage) && build.storage.capacity_gb >= 2000`, 5, "2 TB or more holds a large game library."},
				{`has(build.storage) && build.storage.capacity_gb >= 1000`, 3, "1 TB is a good start for the system and a few favourite games."},
			},
		},
	},
}

var office = Profile{
	ID:          "office",
	Name:        "Office",
	Description: "A build for documents, browsing and everyday tasks.",
	Rules: []Rule{
		{
			Name: "display output",
			Cases: []Case{
				{`has(build.gpu) || (has(build.cpu) && build.cpu.integrated_gpu)`, 10, "Integrated or dedicated graphics are plenty for office work."},
				{`true`, -15, "Without any graphics the build cannot display an image."},
			},
		},
		{
			Name: "integrated graphics",
			Cases: []Case{
				{`!has(build.gpu) && has(build.cpu) && build.cpu.integrated_gpu`, 5, "Integrated graphics are an ideal low-cost choice for office work."},
			},
		},
		{
			Name: "memory",
			Cases: []Case{
				{`has(build.ram) && build.ram.total_capacity_gb >= 16`, 8, "16 GB of RAM or more runs many applications at once."},
				{`has(build.ram) && build.ram.total_capacity_gb >= 8`, 5, "8 GB of RAM is a good minimum for office work."},
				{`has(build.ram)`, -5, "Below 8 GB of RAM many browser tabs become a struggle."},
			},
		},
		{
			Name: "solid state storage",
			Cases: []Case{
				{`has(build.storage) && build.storage.drive_type in ["NVMe", "SATA"]`, 10, "An SSD speeds up booting and launching applications."},
			},
		},
	},
}

// DefaultProfiles returns the gaming and office profiles
func DefaultProfiles() []Profile {
	return []Profile{gaming, office}
}
