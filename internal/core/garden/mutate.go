package garden

// Mutation primitives. Each validates its own shape-level precondition and
// leaves the profile untouched when it returns an error.

// SetPlot replaces the occupant of a 1-indexed plot. A nil occupant clears it.
func (p *Profile) SetPlot(slot int, occ Occupant) error {
	if err := CheckPlotRange(slot).Error(); err != nil {
		return err
	}
	if s, ok := occ.(Seedling); ok {
		s.Progress = clampProgress(s.Progress)
		occ = s
	}
	p.Garden[slot-1] = occ
	return nil
}

// SetGarden replaces all plots at once.
func (p *Profile) SetGarden(plots [GardenSize]Occupant) {
	p.Garden = plots
}

// PlantSeedling puts a fresh seedling into an empty, unlocked plot.
func (p *Profile) PlantSeedling(slot int, seedlingID, channelID string) error {
	if err := CanPlant(p, slot).Error(); err != nil {
		return err
	}
	p.Garden[slot-1] = Seedling{ID: seedlingID, NotificationChannelID: channelID}
	return nil
}

// AdvanceSeedling adds increment to the seedling in a plot and returns the new
// progress, clamped to [0,100].
func (p *Profile) AdvanceSeedling(slot int, increment float64) (float64, error) {
	if err := CheckPlotRange(slot).Error(); err != nil {
		return 0, err
	}
	s, ok := p.Garden[slot-1].(Seedling)
	if !ok {
		return 0, Violationf("Plot %d: No seedling.", slot)
	}
	if increment < 0 {
		increment = 0
	}
	s.Progress = clampProgress(s.Progress + increment)
	p.Garden[slot-1] = s
	return s.Progress, nil
}

// StorePlant moves the plant in a garden plot to the first free storage slot
// and returns that 1-indexed storage slot.
func (p *Profile) StorePlant(slot int) (int, error) {
	if err := CanStore(p, slot).Error(); err != nil {
		return 0, err
	}
	plant := p.Garden[slot-1].(Plant)
	for i := 0; i < p.StorageCapacity(); i++ {
		if p.Storage[i] == nil {
			p.Storage[i] = &plant
			p.Garden[slot-1] = nil
			return i + 1, nil
		}
	}
	return 0, Violationf("Insufficient storage shed capacity.")
}

// UnstorePlant moves a stored plant to the first free unlocked plot and
// returns that 1-indexed plot.
func (p *Profile) UnstorePlant(slot int) (int, error) {
	if err := CanUnstore(p, slot).Error(); err != nil {
		return 0, err
	}
	target := p.FreeUnlockedPlots()[0]
	p.Garden[target-1] = *p.Storage[slot-1]
	p.Storage[slot-1] = nil
	return target, nil
}

// SetStorage replaces a storage slot. A nil plant clears it.
func (p *Profile) SetStorage(slot int, plant *Plant) error {
	if err := CheckStorageRange(slot).Error(); err != nil {
		return err
	}
	if plant != nil {
		cp := *plant
		plant = &cp
	}
	p.Storage[slot-1] = plant
	return nil
}

// AddBalance credits a positive amount.
func (p *Profile) AddBalance(amount int) {
	if amount > 0 {
		p.Balance += amount
	}
}

// RemoveBalance debits amount, clamping at zero. It reports whether the clamp
// engaged.
func (p *Profile) RemoveBalance(amount int) bool {
	if amount <= 0 {
		return false
	}
	if amount > p.Balance {
		p.Balance = 0
		return true
	}
	p.Balance -= amount
	return false
}

// SetBalance sets the balance, never below zero.
func (p *Profile) SetBalance(amount int) {
	if amount < 0 {
		amount = 0
	}
	p.Balance = amount
}

// AddItem adds quantity units of an item.
func (p *Profile) AddItem(id string, quantity int) {
	if quantity <= 0 {
		return
	}
	p.Inventory[id] += quantity
}

// RemoveItem removes quantity units. It returns false and changes nothing
// when fewer are held.
func (p *Profile) RemoveItem(id string, quantity int) bool {
	if quantity <= 0 {
		return true
	}
	if p.Inventory[id] < quantity {
		return false
	}
	p.Inventory[id] -= quantity
	if p.Inventory[id] == 0 {
		delete(p.Inventory, id)
	}
	return true
}

// AddDiscovery records a crafted fusion. It reports whether it was new.
func (p *Profile) AddDiscovery(fusionID string) bool {
	if p.HasDiscovered(fusionID) {
		return false
	}
	p.DiscoveredFusions = append(p.DiscoveredFusions, fusionID)
	return true
}

// UnlockBackground records an unlocked background. It reports whether it was new.
func (p *Profile) UnlockBackground(id string) bool {
	if p.HasBackground(id) {
		return false
	}
	p.UnlockedBackgrounds = append(p.UnlockedBackgrounds, id)
	return true
}

// SetActiveBackground selects an unlocked background.
func (p *Profile) SetActiveBackground(id string) error {
	if !p.HasBackground(id) {
		return Violationf("Background '%s' is not unlocked.", id)
	}
	p.ActiveBackground = id
	return nil
}
