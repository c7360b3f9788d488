package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/app"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/boat"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/control"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
)

var addCmd = &cobra.Command{
	Use:   "add [kind]",
	Short: "Offer a boat to the harbor",
	Long: `Offer a boat to the harbor.

Without arguments a random boat of a random kind arrives. With a kind
(rowing, motor, sailing, catamaran, cargo or a prefix letter) the values
are random unless --weight, --speed and --characteristic are all given.

Exits with code 7 when a single boat is turned away for lack of space.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var (
	addCode           string
	addWeight         int
	addSpeed          int
	addCharacteristic int
	addCount          int
)

func init() {
	addCmd.Flags().StringVar(&addCode, "code", "", "Three-letter identity code (random if empty)")
	addCmd.Flags().IntVar(&addWeight, "weight", 0, "Weight in kilograms")
	addCmd.Flags().IntVar(&addSpeed, "speed", 0, "Top speed in knots")
	addCmd.Flags().IntVar(&addCharacteristic, "characteristic", 0, "Kind-specific value (passengers, horsepower, length, beds, cargo)")
	addCmd.Flags().IntVarP(&addCount, "count", "n", 1, "Number of random boats to offer")
	addCmd.MarkFlagsRequiredTogether("weight", "speed", "characteristic")
	addCmd.MarkFlagsMutuallyExclusive("count", "code")
	addCmd.MarkFlagsMutuallyExclusive("count", "weight")
	rootCmd.AddCommand(addCmd)
}

// addResult is the JSON form of one offered boat.
type addResult struct {
	Boat     boatJSON `json:"boat"`
	Admitted bool     `json:"admitted"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	if addCount < 1 {
		return errors.ValidationError("--count must be at least 1")
	}

	explicit := cmd.Flags().Changed("weight")
	var kind boat.Kind
	if len(args) == 1 {
		k, err := boat.ParseKind(args[0])
		if err != nil {
			return errors.ValidationError(err.Error())
		}
		kind = k
	} else if explicit || addCode != "" {
		return errors.ValidationError("a kind is required with --code or explicit values")
	}

	return withHarbor(cmd, true, func(ctl *control.Control) error {
		var results []addResult
		for i := 0; i < addCount; i++ {
			b, ok, err := offer(ctl, kind, explicit)
			if err != nil {
				return err
			}
			results = append(results, addResult{Boat: boatsJSON([]*boat.Boat{b})[0], Admitted: ok})
			if !jsonOutput {
				if ok {
					logSuccess("%s found space at the harbor", b.IdentityCode())
				} else {
					logWarning("%s was turned away due to lack of space", b.IdentityCode())
				}
			}
		}

		if jsonOutput {
			if err := printJSON(cmd, results); err != nil {
				return err
			}
		}
		if addCount == 1 && !results[0].Admitted {
			return errors.TurnedAway(results[0].Boat.Identity)
		}
		return nil
	})
}

// offer builds one boat from the flags and offers it.
func offer(ctl *control.Control, kind boat.Kind, explicit bool) (*boat.Boat, bool, error) {
	if kind == 0 {
		return ctl.AddRandom()
	}

	var (
		b   *boat.Boat
		err error
	)
	switch {
	case explicit && addCode != "":
		b, err = boat.NewWithCode(kind, addCode, addWeight, addSpeed, addCharacteristic)
	case explicit:
		b, err = boat.New(kind, addWeight, addSpeed, addCharacteristic)
	default:
		b = boat.RandomOf(app.Default.Rand, kind)
		if addCode != "" {
			b, err = boat.NewWithCode(kind, addCode, b.Weight(), b.TopSpeed(), b.CharacteristicValue())
		}
	}
	if err != nil {
		return nil, false, err
	}

	ok, err := ctl.Add(b)
	return b, ok, err
}
