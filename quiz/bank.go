package quiz

import "donutsmp/models"

// Costs and rewards per tier. Every reward exceeds its cost so a perfect
// score always nets a profit.
const (
	SimpleCost   int64 = 500_000
	SimpleReward int64 = 650_000
	MediumCost   int64 = 5_000_000
	MediumReward int64 = 6_500_000
	HardCost     int64 = 25_000_000
	HardReward   int64 = 30_000_000
)

// DefaultTiers returns the Minecraft 1.21 trivia banks served by the site
func DefaultTiers() []Tier {
	return []Tier{
		{
			Name:   models.QuizTierSimple,
			Cost:   SimpleCost,
			Reward: SimpleReward,
			Questions: []Question{
				{
					Prompt:  "What is the maximum enchantment level for Protection in Minecraft 1.21?",
					Options: []string{"III", "IV", "V", "VI"},
					Correct: 1,
				},
				{
					Prompt:  "Which wood type was added in the 1.19 update (Mangrove)?",
					Options: []string{"Cherry", "Bamboo", "Mangrove", "Azalea"},
					Correct: 2,
				},
				{
					Prompt:  "How many hearts of damage does a Netherite Sword deal?",
					Options: []string{"7", "8", "9", "10"},
					Correct: 1,
				},
				{
					Prompt:  "What is the blast resistance of Obsidian?",
					Options: []string{"1200", "6000", "1000", "3000"},
					Correct: 0,
				},
				{
					Prompt:  "Which mob drops Phantom Membranes?",
					Options: []string{"Enderman", "Phantom", "Vex", "Allay"},
					Correct: 1,
				},
			},
		},
		{
			Name:   models.QuizTierMedium,
			Cost:   MediumCost,
			Reward: MediumReward,
			Questions: []Question{
				{
					Prompt:  "What is the exact light level required to prevent hostile mob spawning?",
					Options: []string{"7", "8", "9", "10"},
					Correct: 1,
				},
				{
					Prompt:  "How many different wood types are in Minecraft 1.21?",
					Options: []string{"9", "10", "11", "12"},
					Correct: 1,
				},
				{
					Prompt:  "What Y-level has the highest concentration of Ancient Debris?",
					Options: []string{"Y=15", "Y=13-17", "Y=8-22", "Y=5-12"},
					Correct: 0,
				},
				{
					Prompt:  "Which enchantment is mutually exclusive with Infinity on a bow?",
					Options: []string{"Flame", "Power", "Mending", "Punch"},
					Correct: 2,
				},
				{
					Prompt:  "How many Ender Pearls (on average) are needed to find a Stronghold?",
					Options: []string{"8-12", "12-16", "4-6", "16-20"},
					Correct: 0,
				},
				{
					Prompt:  "What is the maximum fortune level for ore drops?",
					Options: []string{"II", "III", "IV", "V"},
					Correct: 1,
				},
				{
					Prompt:  "Which structure generates exclusively in Deep Dark biomes?",
					Options: []string{"Stronghold", "Ancient City", "Bastion", "End City"},
					Correct: 1,
				},
			},
		},
		{
			Name:   models.QuizTierHard,
			Cost:   HardCost,
			Reward: HardReward,
			Questions: []Question{
				{
					Prompt:  "What is the exact tick speed for a Redstone Repeater on maximum delay?",
					Options: []string{"4 ticks", "8 ticks", "16 ticks", "2 ticks"},
					Correct: 0,
				},
				{
					Prompt:  "How many total Nether biomes exist in Minecraft 1.21?",
					Options: []string{"4", "5", "6", "7"},
					Correct: 1,
				},
				{
					Prompt:  "What is the spawn rate percentage for a Chicken Jockey?",
					Options: []string{"0.25%", "0.5%", "1%", "5%"},
					Correct: 0,
				},
				{
					Prompt:  "How many End Gateway Portals generate around the main End Island?",
					Options: []string{"16", "20", "24", "32"},
					Correct: 1,
				},
				{
					Prompt:  "What is the exact explosion power of a Charged Creeper?",
					Options: []string{"3", "6", "9", "12"},
					Correct: 1,
				},
				{
					Prompt:  "At what Y-level does Deepslate start generating?",
					Options: []string{"Y=0", "Y=-8", "Y=8", "Y=-16"},
					Correct: 1,
				},
				{
					Prompt:  "How many unique sound events are triggered when a Note Block is played?",
					Options: []string{"16", "25", "24", "32"},
					Correct: 1,
				},
				{
					Prompt:  "What is the internal ID for the Warden's sonic boom attack?",
					Options: []string{"sonic_charge", "sonic_boom", "ranged_attack", "warden_attack"},
					Correct: 1,
				},
				{
					Prompt:  "How many different types of Tropical Fish variants exist?",
					Options: []string{"2700", "3584", "2000", "4096"},
					Correct: 0,
				},
				{
					Prompt:  "What is the exact radius (in blocks) of a Beacon at level IV?",
					Options: []string{"40", "50", "60", "70"},
					Correct: 1,
				},
			},
		},
	}
}
